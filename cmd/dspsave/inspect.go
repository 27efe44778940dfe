package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsp-tools/dspsave/blueprint"
	"github.com/dsp-tools/dspsave/codec"
	"github.com/dsp-tools/dspsave/record"
)

// newInspectCmd decodes a text-wrapped blueprint string and pretty-
// prints its header and decoded payload tree. Unlike decode, which
// reads raw save bytes, inspect reads the BLUEPRINT:... envelope and
// un-gzips the payload before handing it to the interpreter.
func newInspectCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "inspect <blueprint-file>",
		Short: "Decode a BLUEPRINT: envelope and print its header and payload tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading blueprint file: %w", err)
			}

			env, err := blueprint.Decode(string(raw))
			if err != nil {
				return err
			}
			slog.Info("decoded blueprint envelope",
				"file", args[0],
				"game_version", env.Header.GameVersion,
				"payload_bytes", len(env.Payload))

			ip := record.NewInterpreter(reg)
			v, err := ip.Decode(blueprint.RootRecord, codec.NewCursor(env.Payload))
			if err != nil {
				return fmt.Errorf("decoding blueprint payload: %w", err)
			}

			p := &record.Printer{ShowOffsets: true}
			rendered := fmt.Sprintf("%s\n\n%s", env.Header.String(), p.Sprint(v))

			if out == "" {
				fmt.Print(rendered)
				return nil
			}
			return os.WriteFile(out, []byte(rendered), 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the rendered tree to a file instead of stdout")
	return cmd
}
