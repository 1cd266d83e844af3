package main

import (
	"bytes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/csvtable"
)

func newExportCSVCmd(a *app) *cobra.Command {
	var (
		separator string
		noHeader  bool
		quoteAll  bool
		align     bool
	)
	cmd := &cobra.Command{
		Use:   "export-csv [FILE]",
		Short: "Export a stored value as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			w, err := csvtable.NewWriterWithFormat(csvtable.NewFormat(separator))
			if err != nil {
				return err
			}
			w = w.WithRichText(a.richText).
				WithHeaderRow(!noHeader).
				WithQuoteAllFields(quoteAll)
			if align {
				w = w.WithPadding(csvtable.AlignColumn)
			}
			var buf bytes.Buffer
			err = w.Write(cmd.Context(), &buf, a.field.Normalize(data).Document)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&separator, "separator", ";", "Field separator")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	cmd.Flags().BoolVar(&quoteAll, "quote-all", false, "Quote all fields")
	cmd.Flags().BoolVar(&align, "align", false, "Pad fields to the column width using the column alignment")
	return cmd
}

func newImportCSVCmd(a *app) *cobra.Command {
	var separator string
	cmd := &cobra.Command{
		Use:   "import-csv [FILE]",
		Short: "Import CSV as stored value",
		Long: `Reads CSV from FILE or stdin and writes the stored value.
The first row holds the column headings.
Encoding, separator and newline are detected if --separator is not set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			var doc *tablemaker.Document
			if separator != "" {
				doc, err = csvtable.ImportWithFormat(data, csvtable.NewFormat(separator), a.options()...)
			} else {
				var format *csvtable.Format
				doc, format, err = csvtable.Import(data, csvtable.NewDefaultFormatDetectionConfig(), a.options()...)
				if format != nil {
					a.logger.Debug("Detected CSV format",
						zap.String("encoding", format.Encoding),
						zap.String("separator", format.Separator),
						zap.String("newline", format.Newline),
					)
				}
			}
			if err != nil {
				return err
			}
			stored, err := a.field.Serialize(doc)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, append(stored, '\n'))
		},
	}
	cmd.Flags().StringVar(&separator, "separator", "", "Field separator (default: detect)")
	return cmd
}
