package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourusername/streak-quiz-api/internal/config"
	"github.com/yourusername/streak-quiz-api/internal/service"
	"github.com/yourusername/streak-quiz-api/internal/service/questiongen"
)

func newGenerateCmd(configPath *string) *cobra.Command {
	var (
		category string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate quiz questions and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gen, err := questiongen.NewGeneratorFromConfig(cmd.Context(), questiongen.FromAppConfig(cfg.Gemini))
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), service.NewQuizService(gen), category, count, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "question category (required)")
	cmd.Flags().IntVar(&count, "count", 1, "number of questions, 1-10")
	cmd.MarkFlagRequired("category")
	return cmd
}

// runGenerate печатает пакет вопросов и режим генератора
func runGenerate(ctx context.Context, quiz *service.QuizService, category string, count int, out io.Writer) error {
	questions, err := quiz.GenerateBatch(ctx, category, count)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Mode      string      `json:"mode"`
		Category  string      `json:"category"`
		Questions interface{} `json:"questions"`
	}{
		Mode:      quiz.Mode(),
		Category:  category,
		Questions: questions,
	})
}
