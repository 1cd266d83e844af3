// Package gqltable exposes table field values over GraphQL.
//
// Every field handle gets an object type named
// <handle>_TableMakerField with the fields
//
//	rows: [[String]]
//	columns: [<handle>_TableMakerField_column]
//	table: String
//
// where table is the computed HTML preview.
// Absent rows and columns resolve to empty lists, never null.
package gqltable

import (
	"errors"
	"fmt"
	"sync"

	"github.com/graphql-go/graphql"

	"github.com/domonda/go-tablemaker"
	"github.com/domonda/go-tablemaker/field"
)

// TypeName returns the GraphQL object type name for a field handle.
func TypeName(handle string) string {
	return handle + "_TableMakerField"
}

// Registry creates the GraphQL types of field handles once
// and returns the same types for repeated requests.
type Registry struct {
	mu    sync.Mutex
	types map[string]*graphql.Object
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*graphql.Object)}
}

// FieldType returns the object type for the field handle.
// Its resolvers accept a *field.Value as source.
func (r *Registry) FieldType(handle string) *graphql.Object {
	r.mu.Lock()
	defer r.mu.Unlock()

	typeName := TypeName(handle)
	if t, ok := r.types[typeName]; ok {
		return t
	}

	columnTypeName := typeName + "_column"
	columnType, ok := r.types[columnTypeName]
	if !ok {
		columnType = graphql.NewObject(graphql.ObjectConfig{
			Name: columnTypeName,
			Fields: graphql.Fields{
				"heading": &graphql.Field{
					Type:    graphql.String,
					Resolve: columnAttr(func(c tablemaker.StoredColumn) string { return c.Heading }),
				},
				"width": &graphql.Field{
					Type:    graphql.String,
					Resolve: columnAttr(func(c tablemaker.StoredColumn) string { return c.Width }),
				},
				"align": &graphql.Field{
					Type:    graphql.String,
					Resolve: columnAttr(func(c tablemaker.StoredColumn) string { return string(c.Align) }),
				},
			},
		})
		r.types[columnTypeName] = columnType
	}

	t := graphql.NewObject(graphql.ObjectConfig{
		Name: typeName,
		Fields: graphql.Fields{
			"rows": &graphql.Field{
				Type:    graphql.NewList(graphql.NewList(graphql.String)),
				Resolve: resolveRows,
			},
			"columns": &graphql.Field{
				Type:    graphql.NewList(columnType),
				Resolve: resolveColumns,
			},
			"table": &graphql.Field{
				Type:    graphql.String,
				Resolve: resolveTable,
			},
		},
	})
	r.types[typeName] = t
	return t
}

// Types returns all created types.
func (r *Registry) Types() []graphql.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]graphql.Type, 0, len(r.types))
	for _, t := range r.types {
		types = append(types, t)
	}
	return types
}

func sourceValue(p graphql.ResolveParams) (*field.Value, error) {
	switch v := p.Source.(type) {
	case *field.Value:
		return v, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected table field source %T", p.Source)
}

func resolveRows(p graphql.ResolveParams) (any, error) {
	v, err := sourceValue(p)
	if err != nil || v == nil {
		return []any{}, err
	}
	rows := make([]any, len(v.Rows))
	for i, row := range v.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = tablemaker.RawString(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

func resolveColumns(p graphql.ResolveParams) (any, error) {
	v, err := sourceValue(p)
	if err != nil || v == nil {
		return []any{}, err
	}
	columns := make([]any, len(v.Columns))
	for i := range v.Columns {
		columns[i] = v.Columns[i]
	}
	return columns, nil
}

func resolveTable(p graphql.ResolveParams) (any, error) {
	v, err := sourceValue(p)
	if err != nil || v == nil {
		return nil, err
	}
	return string(v.Table), nil
}

func columnAttr(attr func(tablemaker.StoredColumn) string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		c, ok := p.Source.(tablemaker.StoredColumn)
		if !ok {
			return nil, errors.New("unexpected table column source")
		}
		return attr(c), nil
	}
}
