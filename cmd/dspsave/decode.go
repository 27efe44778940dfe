package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsp-tools/dspsave/record"
	"github.com/dsp-tools/dspsave/save"
)

func newDecodeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "decode <save-file>",
		Short: "Decode a .dsv save file into a human-readable tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening save file: %w", err)
			}
			defer f.Close()

			v, err := save.Decode(f, reg)
			if err != nil {
				return err
			}
			slog.Info("decoded save", "file", args[0], "bytes", v.LocationEnd-v.LocationStart)

			p := &record.Printer{ShowOffsets: true}
			rendered := p.Sprint(v)

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
