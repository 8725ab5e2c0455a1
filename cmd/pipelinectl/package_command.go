package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/services"
)

func newPackageCommand(ctx *commandContext) *cobra.Command {
	var (
		entities  []string
		lang      string
		modeFlag  string
		textLimit int
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Assemble translated rows into vector-store documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pipeline.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			svc, err := ctx.packageService()
			if err != nil {
				return err
			}
			res, err := svc.Run(cmd.Context(), services.PackageInput{
				Entities:    entities,
				Lang:        lang,
				Mode:        mode,
				Collections: ctx.collections,
				TextLimit:   textLimit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringSliceVar(&entities, "entity", nil, "Entity kinds to package (default field and view_common)")
	cmd.Flags().StringVar(&lang, "lang", "", "Document language (default ja)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Gate mode: upsert_if_changed, force_overwrite or skip_existing")
	cmd.Flags().IntVar(&textLimit, "text-limit", 0, "Document text byte cap")
	return cmd
}
