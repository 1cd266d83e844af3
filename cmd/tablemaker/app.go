package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ungerik/go-fs"
	"go.uber.org/zap"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/config"
	"github.com/domonda/go-tablemaker/field"
	"github.com/domonda/go-tablemaker/internal/log"
	"github.com/domonda/go-tablemaker/richtext"
	"github.com/domonda/go-tablemaker/sqltable"
)

type app struct {
	configPath string
	logLevel   string
	handle     string
	outputPath string
	noRichText bool

	config   *config.Config
	logger   *zap.Logger
	richText tablemaker.RichText
	field    *field.Field
	store    *sqltable.Store
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.handle != "" {
		cfg.Field.Handle = a.handle
	}
	if a.noRichText {
		cfg.RichText.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.Set(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		return err
	}
	a.config = cfg
	a.logger = log.Get()

	a.richText = tablemaker.NoRichText
	if cfg.RichText.Enabled {
		configFile := cfg.RichText.ConfigFile
		if configFile != "" && !filepath.IsAbs(configFile) && a.configPath != "" {
			configFile = filepath.Join(filepath.Dir(a.configPath), configFile)
		}
		a.richText = richtext.New(
			richtext.WithConfigFile(fs.File(configFile)),
			richtext.WithLanguage(cfg.RichText.Language),
			richtext.WithSiteID(cfg.RichText.SiteID),
			richtext.WithLogger(a.logger),
		)
	}

	a.field = &field.Field{
		Handle: cfg.Field.Handle,
		Settings: field.Settings{
			ColumnsLabel:        cfg.Field.ColumnsLabel,
			ColumnsInstructions: cfg.Field.ColumnsInstructions,
			ColumnsAddRowLabel:  cfg.Field.ColumnsAddRowLabel,
			RowsLabel:           cfg.Field.RowsLabel,
			RowsInstructions:    cfg.Field.RowsInstructions,
			RowsAddRowLabel:     cfg.Field.RowsAddRowLabel,
		},
		RichText: a.richText,
		Logger:   a.logger,
		Options:  []tablemaker.Option{tablemaker.WithDebounce(cfg.Editor.Debounce)},
	}
	return nil
}

// openStore opens the configured store on first use.
func (a *app) openStore(ctx context.Context) (*sqltable.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := sqltable.Open(ctx, a.config.Store.Path, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.field.Store = store
	return store, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// readInput reads the file args[i] or stdin
// if there is no such argument or it is "-".
func readInput(cmd *cobra.Command, args []string, i int) ([]byte, error) {
	if i >= len(args) || args[i] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return fs.File(args[i]).ReadAll()
}

func (a *app) options() []tablemaker.Option {
	return []tablemaker.Option{
		tablemaker.WithLogger(a.logger),
		tablemaker.WithRichText(a.richText),
	}
}

// writeJSON writes v as indented JSON without HTML escaping.
func (a *app) writeJSON(cmd *cobra.Command, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return a.writeOutput(cmd, buf.Bytes())
}

// writeOutput writes data to the --output file or stdout.
func (a *app) writeOutput(cmd *cobra.Command, data []byte) error {
	if a.outputPath != "" {
		return fs.File(a.outputPath).WriteAll(data)
	}
	_, err := cmd.OutOrStdout().Write(data)
	return err
}
