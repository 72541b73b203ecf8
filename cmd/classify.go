package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spigell/career-advisor/internal/advisor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var classifyCmd = &cobra.Command{
	Use:   "classify MESSAGE",
	Short: "Print how the topic gate classifies a chat message",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := buildLogger()

		adv := localAdvisor(logger)
		printVerdict(cmd.OutOrStdout(), adv, args[0])
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func printVerdict(out io.Writer, adv *advisor.Advisor, message string) {
	verdict := adv.Classify(message)
	fmt.Fprintln(out, verdict)
	if verdict != advisor.Allowed {
		fmt.Fprintln(out, adv.Rejection(verdict))
	}
}

// localAdvisor builds an advisor for the interactive commands from the
// current configuration.
func localAdvisor(logger *zap.Logger) *advisor.Advisor {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	adv, err := newAdvisor(context.Background(), config, logger, nil)
	if err != nil {
		logger.Fatal("building the advisor", zap.Error(err))
	}
	return adv
}
