package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spigell/career-advisor/internal/advisor"
	"github.com/spigell/career-advisor/internal/resumefile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a resume file (.txt, .md, .pdf, .docx) and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := buildLogger()
		adv := localAdvisor(logger)

		analysis, err := analyzeFile(cmd.Context(), adv, args[0])
		if err != nil {
			logger.Fatal("analyzing resume", zap.Error(err), zap.String("file", args[0]))
		}

		pretty, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			logger.Fatal("encoding analysis", zap.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeFile runs the same pipeline as the HTTP endpoint: analysis, local
// score and improvement suggestions.
func analyzeFile(ctx context.Context, adv *advisor.Advisor, path string) (advisor.Analysis, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return advisor.Analysis{}, fmt.Errorf("reading resume: %w", err)
	}

	text, err := resumefile.Extract(path, data)
	if err != nil {
		return advisor.Analysis{}, err
	}
	if text == "" {
		return advisor.Analysis{}, fmt.Errorf("no text found in %s", path)
	}

	analysis := adv.AnalyzeResume(ctx, text)
	rating := adv.Score(analysis, text)
	suggestions := adv.SuggestImprovements(ctx, text, analysis)

	analysis.Rating = rating
	analysis.Suggestions = suggestions
	return analysis, nil
}
