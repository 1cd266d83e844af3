// Package formpost decodes the submitted form representation
// of a table field.
//
// The editor posts its grids as path addressed form fields:
//
//	<handle>[columns][col0][heading]=Name
//	<handle>[columns][col0][align]=left
//	<handle>[rows][row0][col0]=Anna
//
// ExpandPostArray turns the fields into nested ordered objects
// keeping the submission order of keys, Decode converts the
// expanded field value into a tablemaker.Document.
package formpost

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap"

	"github.com/domonda/go-tablemaker"
)

var (
	// ErrMalformedName is returned for field names
	// with unbalanced or misplaced brackets.
	ErrMalformedName = errors.New("malformed form field name")

	// ErrFieldNotFound is returned by Decode if the
	// form has no fields for the field handle.
	ErrFieldNotFound = errors.New("form field not found")
)

// Pair is one submitted form field.
type Pair struct {
	Name  string
	Value string
}

// ParseQuery parses URL encoded form data like
// "a=1&b[c]=2" into pairs in submission order.
// Pairs with an empty name are skipped.
func ParseQuery(query string) (pairs []Pair, err error) {
	for query != "" {
		var part string
		part, query, _ = strings.Cut(query, "&")
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		name, err = url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("form field name %q: %w", name, err)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("form field %q value: %w", name, err)
		}
		if name == "" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs, nil
}

// Encode returns pairs as URL encoded form data.
// Brackets are kept unescaped for readability.
func Encode(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		name := url.QueryEscape(p.Name)
		name = strings.NewReplacer("%5B", "[", "%5D", "]").Replace(name)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// SplitName splits a field name like "a[b][c]"
// into its path segments "a", "b", "c".
// An empty segment as in "a[]" means append.
func SplitName(name string) ([]string, error) {
	base, rest, hasBrackets := strings.Cut(name, "[")
	if base == "" || strings.ContainsRune(base, ']') {
		return nil, fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
	path := []string{base}
	if !hasBrackets {
		return path, nil
	}
	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedName, name)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedName, name)
		}
		segment := rest[1:end]
		if strings.ContainsRune(segment, '[') {
			return nil, fmt.Errorf("%w: %q", ErrMalformedName, name)
		}
		path = append(path, segment)
		rest = rest[end+1:]
	}
	return path, nil
}

// ExpandPostArray expands pairs with path addressed names
// into nested ordered objects with string keys.
//
// Leaf values are strings, a later pair with the same
// path replaces the value of an earlier one but keeps its position.
// Empty segments append with the next free index as key.
// A path that continues below a non-empty string leaf is an error.
func ExpandPostArray(pairs []Pair) (*orderedmap.OrderedMap, error) {
	root := orderedmap.NewOrderedMap()
	for _, pair := range pairs {
		path, err := SplitName(pair.Name)
		if err != nil {
			return nil, err
		}
		obj := root
		for i, key := range path {
			if key == "" {
				key = strconv.Itoa(obj.Len())
			}
			if i == len(path)-1 {
				if existing, ok := obj.Get(key); ok {
					if _, isObj := existing.(*orderedmap.OrderedMap); isObj {
						if pair.Value == "" {
							break
						}
						return nil, fmt.Errorf("%w: %q is a value and an object", ErrMalformedName, pair.Name)
					}
				}
				obj.Set(key, pair.Value)
				break
			}
			child, ok := obj.Get(key)
			if !ok {
				next := orderedmap.NewOrderedMap()
				obj.Set(key, next)
				obj = next
				continue
			}
			next, ok := child.(*orderedmap.OrderedMap)
			if !ok && child == "" {
				// Empty placeholder like the hidden input of a field
				next = orderedmap.NewOrderedMap()
				obj.Set(key, next)
				ok = true
			}
			if !ok {
				return nil, fmt.Errorf("%w: %q is a value and an object", ErrMalformedName, pair.Name)
			}
			obj = next
		}
	}
	return root, nil
}

// Decode expands pairs and returns the Document
// posted for the field with handle.
//
// The hidden input named just handle that the editor posts
// alongside the grids is ignored.
func Decode(pairs []Pair, handle string, opts ...tablemaker.Option) (*tablemaker.Document, error) {
	expanded, err := ExpandPostArray(pairs)
	if err != nil {
		return nil, err
	}
	value, ok := expanded.Get(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, handle)
	}
	field, ok := value.(*orderedmap.OrderedMap)
	if !ok {
		if str, _ := value.(string); str == "" {
			// Only the hidden input was posted
			return new(tablemaker.Document), nil
		}
		return nil, fmt.Errorf("%w: %q is not an object", ErrMalformedName, handle)
	}
	return tablemaker.FromStorage(field, opts...), nil
}

// DecodeQuery parses URL encoded form data
// and decodes the field with handle.
func DecodeQuery(query, handle string, opts ...tablemaker.Option) (*tablemaker.Document, error) {
	pairs, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}
	return Decode(pairs, handle, opts...)
}

// Pairs returns the form fields the editor posts for doc.
// Checkbox cells are only posted when on.
func Pairs(doc *tablemaker.Document, handle string) []Pair {
	var pairs []Pair
	for _, col := range doc.Columns {
		prefix := handle + "[columns][" + string(col.ID) + "]"
		pairs = append(pairs,
			Pair{Name: prefix + "[heading]", Value: col.Heading},
			Pair{Name: prefix + "[fieldType]", Value: string(col.FieldType)},
			Pair{Name: prefix + "[width]", Value: col.Width},
			Pair{Name: prefix + "[align]", Value: string(col.Align)},
		)
	}
	for r, row := range doc.Rows {
		prefix := handle + "[rows][" + string(row.ID) + "]"
		for c, col := range doc.Columns {
			raw, _ := doc.Cell(r, c)
			value := tablemaker.RawString(raw)
			if col.FieldType == tablemaker.FieldTypeCheckbox {
				if !tablemaker.IsToggleOn(raw) {
					continue
				}
				value = "1"
			}
			pairs = append(pairs, Pair{Name: prefix + "[" + string(col.ID) + "]", Value: value})
		}
	}
	return pairs
}
