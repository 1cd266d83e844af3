package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-tablemaker/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Write the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(a.config)
				if err != nil {
					return err
				}
				return a.writeOutput(cmd, data)
			},
		},
		&cobra.Command{
			Use:   "init [PATH]",
			Short: "Write the default configuration file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.configPath
				if len(args) > 0 {
					path = args[0]
				}
				if path == "" {
					var err error
					path, err = config.Path()
					if err != nil {
						return err
					}
				}
				if err := config.Default().Write(path); err != nil {
					return err
				}
				cmd.Println("Wrote", path)
				return nil
			},
		},
	)
	return cmd
}
