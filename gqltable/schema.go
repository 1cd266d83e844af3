package gqltable

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/domonda/go-tablemaker/field"
)

// NewSchema returns a schema with the query
//
//	element(id: String!) { <handle>: <handle>_TableMakerField ... }
//
// resolving every field value with field.Field.Load.
func NewSchema(registry *Registry, fields ...*field.Field) (graphql.Schema, error) {
	if len(fields) == 0 {
		return graphql.Schema{}, errors.New("no table fields")
	}
	elementFields := graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(string), nil
			},
		},
	}
	for _, f := range fields {
		elementFields[f.Handle] = &graphql.Field{
			Type: registry.FieldType(f.Handle),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return f.Load(p.Context, p.Source.(string))
			},
		}
	}
	element := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Element",
		Fields: elementFields,
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"element": &graphql.Field{
				Type: element,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Args["id"], nil
				},
			},
		},
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
