package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(w io.Writer, payload any) error {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
