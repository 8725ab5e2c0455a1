package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/services"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var (
		entity      string
		srcLang     string
		tgtLang     string
		limit       int
		concurrency int
		retryFailed bool
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Drain the pending translation queue through the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.translateService()
			if err != nil {
				return err
			}
			res, err := svc.Run(cmd.Context(), services.TranslateInput{
				Entity:      entity,
				SrcLang:     srcLang,
				TgtLang:     tgtLang,
				Limit:       limit,
				Concurrency: concurrency,
				RetryFailed: retryFailed,
				MaxAttempts: maxAttempts,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Limit to one entity kind (field or view_common)")
	cmd.Flags().StringVar(&srcLang, "src-lang", "", "Source language (default ja)")
	cmd.Flags().StringVar(&tgtLang, "tgt-lang", "", "Target language (default en)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to pick this run")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Worker pool size")
	cmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "Also pick failed rows below the attempt cap")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Attempt cap for --retry-failed")
	return cmd
}
