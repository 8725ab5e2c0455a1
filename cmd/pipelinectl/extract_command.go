package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/pipeline"
	"github.com/yungbote/devportal-backend/internal/services"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		models   []string
		fields   []string
		xmlids   []string
		targets  []string
		modeFlag string
		srcLang  string
		tgtLang  string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Queue Japanese source texts for translation",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pipeline.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			svc, err := ctx.extractService()
			if err != nil {
				return err
			}

			if len(xmlids) == 0 {
				res, err := svc.ExtractFields(cmd.Context(), services.ExtractFieldsInput{
					Models:  models,
					Fields:  fields,
					Mode:    mode,
					SrcLang: srcLang,
					TgtLang: tgtLang,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}

			parsedTargets := make([]naturalkey.Target, 0, len(targets))
			for _, raw := range targets {
				target, err := naturalkey.ParseTarget(raw)
				if err != nil {
					return fmt.Errorf("invalid --target: %w", err)
				}
				parsedTargets = append(parsedTargets, target)
			}
			res, err := svc.ExtractViewCommons(cmd.Context(), services.ExtractViewCommonsInput{
				ActionXMLIDs: xmlids,
				Targets:      parsedTargets,
				Mode:         mode,
				SrcLang:      srcLang,
				TgtLang:      tgtLang,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringSliceVar(&models, "model", nil, "Restrict field extraction to these models")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "Restrict field extraction to these field names")
	cmd.Flags().StringSliceVar(&xmlids, "action", nil, "Extract view commons for these action xmlids instead of fields")
	cmd.Flags().StringSliceVar(&targets, "target", nil, "View common targets (ai_purpose, help)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Gate mode: upsert_if_changed, force_overwrite or skip_existing")
	cmd.Flags().StringVar(&srcLang, "src-lang", "", "Source language (default ja)")
	cmd.Flags().StringVar(&tgtLang, "tgt-lang", "", "Target language (default en)")
	return cmd
}
