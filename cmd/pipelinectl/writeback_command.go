package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/naturalkey"
	"github.com/yungbote/devportal-backend/internal/services"
)

func newWritebackCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "writeback",
		Short: "Copy finished translations back onto the metadata tables",
	}
	cmd.AddCommand(newWritebackFieldsCommand(ctx))
	cmd.AddCommand(newWritebackViewCommonsCommand(ctx))
	return cmd
}

func newWritebackFieldsCommand(ctx *commandContext) *cobra.Command {
	var (
		model    string
		fields   []string
		lang     string
		srcLang  string
		modeFlag string
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Write translated field labels into label_i18n",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.writebackService()
			if err != nil {
				return err
			}
			res, err := svc.WritebackFields(cmd.Context(), services.WritebackFieldsInput{
				Model:   model,
				Fields:  fields,
				Lang:    lang,
				Mode:    services.WritebackMode(modeFlag),
				SrcLang: srcLang,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Restrict to one model")
	cmd.Flags().StringSliceVar(&fields, "field", nil, "Restrict to these field names")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language (default en)")
	cmd.Flags().StringVar(&srcLang, "src-lang", "", "Source language (default ja)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "skip_if_exists (default) or overwrite")
	return cmd
}

func newWritebackViewCommonsCommand(ctx *commandContext) *cobra.Command {
	var (
		xmlids   []string
		targets  []string
		lang     string
		srcLang  string
		modeFlag string
	)

	cmd := &cobra.Command{
		Use:   "view-commons",
		Short: "Write translated purposes and help back onto view commons",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]naturalkey.Target, 0, len(targets))
			for _, raw := range targets {
				target, err := naturalkey.ParseTarget(raw)
				if err != nil {
					return err
				}
				parsed = append(parsed, target)
			}
			svc, err := ctx.writebackService()
			if err != nil {
				return err
			}
			res, err := svc.WritebackViewCommons(cmd.Context(), services.WritebackViewCommonsInput{
				ActionXMLIDs: xmlids,
				Targets:      parsed,
				Lang:         lang,
				Mode:         services.WritebackMode(modeFlag),
				SrcLang:      srcLang,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringSliceVar(&xmlids, "action", nil, "Restrict to these action XML IDs")
	cmd.Flags().StringSliceVar(&targets, "target", nil, "Targets to write back (ai_purpose, help)")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language (default en)")
	cmd.Flags().StringVar(&srcLang, "src-lang", "", "Source language (default ja)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "skip_if_exists (default) or overwrite")
	return cmd
}
