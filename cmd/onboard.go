package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/career-advisor/internal/advisor"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Answer three questions and get three career options",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := buildLogger()
		adv := localAdvisor(logger)

		answers := make([]string, 0, 3)
		for _, label := range []string{"Interest", "Hobby", "Education"} {
			p := promptui.Prompt{Label: label, Validate: required}
			answer, err := p.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
			answers = append(answers, strings.TrimSpace(answer))
		}

		careers := adv.OnboardingCareers(cmd.Context(), answers[0], answers[1], answers[2])
		printCareers(cmd.OutOrStdout(), careers)
	},
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("an answer is required")
	}
	return nil
}

func printCareers(out io.Writer, careers []advisor.CareerOption) {
	for i, c := range careers {
		fmt.Fprintf(out, "%d. %s\n", i+1, c.Title)
		if c.Why != "" {
			fmt.Fprintf(out, "   %s\n", c.Why)
		}
	}
}
