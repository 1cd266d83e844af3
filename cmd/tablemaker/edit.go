package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ungerik/go-fs"
	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker/field"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		scriptFile string
		exprs      []string
		element    string
		save       bool
		result     string
	)
	cmd := &cobra.Command{
		Use:   "edit [FILE]",
		Short: "Run a scripted edit session on a value",
		Long: `Starts an edit session on the stored value read from FILE or stdin,
or loaded from the store with --element, and applies the commands
of the edit script:

  add-column
  delete-column COL
  move-column COL INDEX
  heading COL TEXT
  type COL singleline|checkbox|html
  width COL WIDTH
  align COL left|center|right
  attr COL NAME VALUE
  add-row
  delete-row ROW
  move-row ROW INDEX
  set ROW COL VALUE
  flush

The id "new" refers to the last added column or row.
The result is written as storage JSON, editor blob,
editor bootstrap JSON or normalized value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var value any
			if element != "" {
				if _, err := a.openStore(ctx); err != nil {
					return err
				}
				loaded, err := a.field.Load(ctx, element)
				if err != nil {
					return err
				}
				value = loaded
			} else {
				data, err := readInput(cmd, args, 0)
				if err != nil {
					return err
				}
				value = data
			}

			var script []byte
			if scriptFile != "" {
				data, err := fs.File(scriptFile).ReadAll()
				if err != nil {
					return err
				}
				script = data
			}
			script = append(script, '\n')
			script = append(script, strings.Join(exprs, "\n")...)
			cmds, err := parseScript(script)
			if err != nil {
				return err
			}

			editor := a.field.NewEditor(ctx, value)
			defer editor.Close()

			if err := runScript(editor.Controller, cmds); err != nil {
				return err
			}
			a.logger.Debug("Edit session done",
				zap.Int("commands", len(cmds)),
				zap.Int("rebuilds", editor.Rebuilds()),
			)

			if save {
				if element == "" {
					return errors.New("--save requires --element")
				}
				if err := a.field.Save(ctx, element, editor.Controller); err != nil {
					return err
				}
			}
			return a.writeEditResult(cmd, editor, result)
		},
	}
	cmd.Flags().StringVarP(&scriptFile, "script", "s", "", "Edit script file")
	cmd.Flags().StringArrayVarP(&exprs, "exec", "e", nil, "Edit script command, applied after --script")
	cmd.Flags().StringVar(&element, "element", "", "Load the value of this element from the store")
	cmd.Flags().BoolVar(&save, "save", false, "Save the result to the store element")
	cmd.Flags().StringVar(&result, "result", "stored", "Result format: stored, blob, bootstrap or value")
	return cmd
}

func (a *app) writeEditResult(cmd *cobra.Command, editor *field.Editor, result string) error {
	switch result {
	case "stored":
		data, err := a.field.Serialize(editor.Controller)
		if err != nil {
			return err
		}
		return a.writeOutput(cmd, append(data, '\n'))
	case "blob":
		return a.writeOutput(cmd, append(editor.Blob(), '\n'))
	case "bootstrap":
		data, err := editor.Bootstrap()
		if err != nil {
			return err
		}
		return a.writeOutput(cmd, append(data, '\n'))
	case "value":
		return a.writeJSON(cmd, editor.Value(a.field))
	}
	return fmt.Errorf("unknown result format %q", result)
}
