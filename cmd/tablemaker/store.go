package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/csvtable"
	"github.com/domonda/go-tablemaker/htmltable"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the stored values of the field",
	}
	cmd.AddCommand(
		newStoreGetCmd(a),
		newStorePutCmd(a),
		newStoreHistoryCmd(a),
		newStoreDeleteCmd(a),
		newStoreListCmd(a),
	)
	return cmd
}

func newStoreGetCmd(a *app) *cobra.Command {
	var revision string
	cmd := &cobra.Command{
		Use:   "get ELEMENT",
		Short: "Write the stored value of an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			var data []byte
			if revision != "" {
				id, err := ulid.ParseStrict(revision)
				if err != nil {
					return fmt.Errorf("invalid revision: %w", err)
				}
				data, err = store.LoadRevision(ctx, args[0], a.field.Handle, id)
				if err != nil {
					return err
				}
			} else {
				data, err = store.Load(ctx, args[0], a.field.Handle)
				if err != nil {
					return err
				}
			}
			return a.writeOutput(cmd, append(data, '\n'))
		},
	}
	cmd.Flags().StringVar(&revision, "revision", "", "Revision ULID (default: latest)")
	return cmd
}

func newStorePutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put ELEMENT [FILE]",
		Short: "Normalize and save a value for an element",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.openStore(ctx); err != nil {
				return err
			}
			data, err := readInput(cmd, args, 1)
			if err != nil {
				return err
			}
			return a.field.Save(ctx, args[0], data)
		},
	}
}

type historyEntry struct {
	Revision string    `col:"Revision"`
	SavedAt  time.Time `col:"Saved at"`
	Size     int       `col:"Bytes"`
}

func newStoreHistoryCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "history ELEMENT",
		Short: "List the saved revisions of an element, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			revisions, err := store.History(ctx, args[0], a.field.Handle)
			if err != nil {
				return err
			}
			entries := make([]historyEntry, len(revisions))
			for i, rev := range revisions {
				entries[i] = historyEntry{
					Revision: rev.ID.String(),
					SavedAt:  rev.SavedAt.UTC(),
					Size:     len(rev.Value),
				}
			}
			doc, err := tablemaker.FromStructs(entries, &tablemaker.DefaultStructFieldNaming)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case "text":
				err = csvtable.NewWriter().
					WithHeaderRow(false).
					WithDelimiter('\t').
					WithNewLine("\n").
					Write(ctx, &buf, doc)
			case "csv":
				err = csvtable.Export(ctx, &buf, doc, nil, a.richText)
			case "html":
				err = htmltable.NewWriter().Write(ctx, &buf, doc, "History of "+args[0])
			default:
				err = fmt.Errorf("unknown history format %q", format)
			}
			if err != nil {
				return err
			}
			return a.writeOutput(cmd, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, csv or html")
	return cmd
}

func newStoreDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ELEMENT",
		Short: "Delete all revisions of an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			return store.Delete(ctx, args[0], a.field.Handle)
		},
	}
}

func newStoreListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the elements with a stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			elements, err := store.Elements(ctx, a.field.Handle)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			for _, element := range elements {
				fmt.Fprintln(&buf, element)
			}
			return a.writeOutput(cmd, buf.Bytes())
		},
	}
}
