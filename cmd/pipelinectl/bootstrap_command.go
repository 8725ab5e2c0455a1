package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/services"
)

func newBootstrapCommand(ctx *commandContext) *cobra.Command {
	var setPrimary bool

	cmd := &cobra.Command{
		Use:   "bootstrap-views <action-xmlid> [action-xmlid...]",
		Short: "Materialize view skeletons from each action's declared view types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.bootstrapService()
			if err != nil {
				return err
			}
			res, err := svc.BootstrapByActionXMLIDs(cmd.Context(), services.BootstrapViewsInput{
				ActionXMLIDs:         args,
				SetPrimaryFromCommon: setPrimary,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&setPrimary, "set-primary", true, "Promote each action's declared primary view")
	return cmd
}
