package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/domonda/go-tablemaker/exceltable"
)

func newExportXLSXCmd(a *app) *cobra.Command {
	var sheet string
	cmd := &cobra.Command{
		Use:   "export-xlsx [FILE]",
		Short: "Export a stored value as Excel workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = exceltable.Write(cmd.Context(), &buf, a.field.Normalize(data).Document, sheet, a.richText)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", exceltable.DefaultSheetName, "Sheet name")
	return cmd
}

func newImportXLSXCmd(a *app) *cobra.Command {
	var (
		sheet string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "import-xlsx [FILE]",
		Short: "Import an Excel sheet as stored value",
		Long: `Reads an Excel workbook from FILE or stdin and writes the
first or the --sheet sheet as stored value.
The first row holds the column headings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			var s *exceltable.Sheet
			if sheet != "" {
				s, err = exceltable.ReadSheet(bytes.NewReader(data), sheet, raw, a.options()...)
			} else {
				s, err = exceltable.ReadFirstSheet(bytes.NewReader(data), raw, a.options()...)
			}
			if err != nil {
				return err
			}
			stored, err := a.field.Serialize(s.Document)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, append(stored, '\n'))
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Read cell values without number formatting")
	return cmd
}
