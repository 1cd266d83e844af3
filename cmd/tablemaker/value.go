package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/domonda/go-tablemaker/htmltable"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var storedOnly bool
	cmd := &cobra.Command{
		Use:   "normalize [FILE]",
		Short: "Normalize a stored or submitted value",
		Long: `Reads a stored value as JSON from FILE or stdin and writes
the normalized value with its HTML preview.
Malformed input results in an empty value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			if storedOnly {
				stored, err := a.field.Serialize(data)
				if err != nil {
					return err
				}
				return a.writeOutput(cmd, append(stored, '\n'))
			}
			return a.writeJSON(cmd, a.field.Normalize(data))
		},
	}
	cmd.Flags().BoolVar(&storedOnly, "stored", false, "Write only the storage JSON without preview")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		caption  string
		class    string
		noHeader bool
	)
	cmd := &cobra.Command{
		Use:   "preview [FILE]",
		Short: "Render a stored value as HTML table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			doc := a.field.Normalize(data).Document
			w := htmltable.NewWriter().
				WithRichText(a.richText).
				WithHeaderRow(!noHeader)
			if class != "" {
				w = w.WithTableClass(class)
			}
			var buf bytes.Buffer
			if caption != "" {
				err = w.Write(cmd.Context(), &buf, doc, caption)
			} else {
				err = w.Write(cmd.Context(), &buf, doc)
			}
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Table caption")
	cmd.Flags().StringVar(&class, "class", "", "CSS class of the table element")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header row")
	return cmd
}

func newDecodeFormCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode-form [FILE]",
		Short: "Decode a URL encoded form submission",
		Long: `Reads URL encoded form data posted by the editor
from FILE or stdin and writes the normalized value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}
			value, err := a.field.Decode(string(bytes.TrimSpace(data)))
			if err != nil {
				return err
			}
			return a.writeJSON(cmd, value)
		},
	}
}
