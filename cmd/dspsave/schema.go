package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// newSchemaCmd parses the schema named by --schema and reports its
// record names and sha256 (cache-invalidation digest), without
// decoding any save or blueprint data.
func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Parse the schema named by --schema and print its record inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			names := reg.RecordNames()
			slog.Info("schema loaded", "records", len(names), "sha256", reg.SHA256())
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	return cmd
}
