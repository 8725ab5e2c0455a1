package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/devportal-backend/internal/services"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Load a portal metadata snapshot into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot %q: %w", args[0], err)
			}
			var payload services.ImportPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("parse snapshot %q: %w", args[0], err)
			}

			svc, err := ctx.importService()
			if err != nil {
				return err
			}
			res, err := svc.Import(cmd.Context(), &payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
