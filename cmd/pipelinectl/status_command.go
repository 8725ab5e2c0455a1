package main

import (
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print pipeline counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.statusService()
			if err != nil {
				return err
			}
			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
}
