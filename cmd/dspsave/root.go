package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsp-tools/dspsave/cmd/dspsave/logconfig"
	"github.com/dsp-tools/dspsave/schema"
)

var (
	flagSchemaPath string
	flagLogLevel   string
	flagLogFormat  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dspsave",
		Short:         "Decode, encode, and inspect Dyson Sphere Program save and blueprint files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			handler, err := logconfig.CreateHandler(os.Stderr, flagLogLevel, flagLogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "logfmt", "log format: logfmt, json")
	pf.StringVar(&flagSchemaPath, "schema", "", "path to the schema file describing the record layout")

	root.AddCommand(newDecodeCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newSchemaCmd())

	return root
}

// loadRegistry parses and registers the schema named by --schema,
// failing loudly if it wasn't given; every subcommand, `schema`
// included, calls it.
func loadRegistry() (*schema.Registry, error) {
	if flagSchemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	f, err := os.Open(flagSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("opening schema: %w", err)
	}
	defer f.Close()

	doc, err := schema.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	slog.Debug("schema parsed", "records", len(doc.Records), "sha256", doc.SHA256)

	reg, err := schema.NewRegistry(doc)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}
	return reg, nil
}
