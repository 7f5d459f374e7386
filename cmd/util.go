package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func printJSON(value interface{}) error {
	return writeJSON(os.Stdout, value)
}

func writeJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
