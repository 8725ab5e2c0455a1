package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/services"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var (
		collections []string
		limit       int
		batchSize   int
		maxAttempts int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Upsert queued documents into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.indexService()
			if err != nil {
				return err
			}
			res, err := svc.Run(cmd.Context(), services.IndexInput{
				Collections: collections,
				Limit:       limit,
				BatchSize:   batchSize,
				MaxAttempts: maxAttempts,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringSliceVar(&collections, "collection", nil, "Restrict to these collections")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max documents to pick up")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Upsert batch size")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Retry budget per document")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Count candidates without writing")
	return cmd
}
