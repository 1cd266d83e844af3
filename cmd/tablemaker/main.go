// Command tablemaker normalizes, previews, edits, converts
// and stores table field values.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker/internal/log"
)

func main() {
	a := new(app)
	err := newRootCmd(a).Execute()
	if closeErr := a.close(); closeErr != nil {
		log.Get().Error("Closing store failed", zap.Error(closeErr))
		err = multierr.Append(err, closeErr)
	}
	log.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tablemaker",
		Short:        "Work with table field values",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: $TABLEMAKER_CONFIG or user config dir)")
	flags.StringVar(&a.logLevel, "log-level", "", "Override the configured log level")
	flags.StringVar(&a.handle, "handle", "", "Override the configured field handle")
	flags.StringVarP(&a.outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.BoolVar(&a.noRichText, "no-rich-text", false, "Disable the rich-text capability")

	rootCmd.AddCommand(
		newNormalizeCmd(a),
		newPreviewCmd(a),
		newEditCmd(a),
		newDecodeFormCmd(a),
		newExportCSVCmd(a),
		newImportCSVCmd(a),
		newExportXLSXCmd(a),
		newImportXLSXCmd(a),
		newQueryCmd(a),
		newStoreCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}
