package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/spf13/cobra"

	"github.com/domonda/go-tablemaker/gqltable"
)

func newQueryCmd(a *app) *cobra.Command {
	var variables string
	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Run a GraphQL query against the store",
		Long: `Runs a GraphQL query against the stored values of the field, e.g.

  tablemaker query '{ element(id: "home") { table { rows columns { heading align } } } }'

with "table" being the configured field handle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.openStore(ctx); err != nil {
				return err
			}
			var vars map[string]any
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return fmt.Errorf("invalid --variables: %w", err)
				}
			}
			schema, err := gqltable.NewSchema(gqltable.NewRegistry(), a.field)
			if err != nil {
				return err
			}
			result := graphql.Do(graphql.Params{
				Schema:         schema,
				RequestString:  args[0],
				VariableValues: vars,
				Context:        ctx,
			})
			if err := a.writeJSON(cmd, result); err != nil {
				return err
			}
			if result.HasErrors() {
				return errors.New(result.Errors[0].Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variables, "variables", "", "Query variables as JSON object")
	return cmd
}
