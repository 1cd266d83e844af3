package tablemaker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap"
)

// DecodeOrderedJSON decodes JSON data keeping the key order of objects.
// Objects are returned as *orderedmap.OrderedMap with string keys,
// arrays as []any and numbers as json.Number.
func DecodeOrderedJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := decodeOrderedValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	return value, nil
}

func decodeOrderedValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch token {
	case json.Delim('{'):
		object := orderedmap.NewOrderedMap()
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, fmt.Errorf("expected JSON object key but got %v", keyToken)
			}
			value, err := decodeOrderedValue(dec)
			if err != nil {
				return nil, err
			}
			object.Set(key, value)
		}
		_, err = dec.Token() // '}'
		return object, err

	case json.Delim('['):
		array := []any{}
		for dec.More() {
			value, err := decodeOrderedValue(dec)
			if err != nil {
				return nil, err
			}
			array = append(array, value)
		}
		_, err = dec.Token() // ']'
		return array, err
	}
	return token, nil
}

// MarshalOrderedJSON encodes value as JSON like json.Marshal
// but writes *orderedmap.OrderedMap objects in key order.
func MarshalOrderedJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	err := encodeOrderedValue(&buf, value)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeOrderedValue(buf *bytes.Buffer, value any) error {
	switch x := value.(type) {
	case *orderedmap.OrderedMap:
		buf.WriteByte('{')
		for el := x.Front(); el != nil; el = el.Next() {
			if el != x.Front() {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(fmt.Sprint(el.Key))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err = encodeOrderedValue(buf, el.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeOrderedValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// orderedValue converts value into the representation
// returned by DecodeOrderedJSON.
//
// Strings and byte slices are parsed as JSON,
// an empty or whitespace only string is nil.
// Go maps are ordered by their keys using natural
// number order for keys like "col2" and "col10".
func orderedValue(value any) (any, error) {
	switch x := value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		return DecodeOrderedJSON([]byte(x))
	case []byte:
		if len(bytes.TrimSpace(x)) == 0 {
			return nil, nil
		}
		return DecodeOrderedJSON(x)
	case json.RawMessage:
		return orderedValue([]byte(x))
	case *orderedmap.OrderedMap:
		return x, nil
	case map[string]any:
		object := orderedmap.NewOrderedMap()
		for _, key := range sortedKeys(x) {
			v, err := orderedNested(x[key])
			if err != nil {
				return nil, err
			}
			object.Set(key, v)
		}
		return object, nil
	case []any:
		array := make([]any, len(x))
		for i := range x {
			v, err := orderedNested(x[i])
			if err != nil {
				return nil, err
			}
			array[i] = v
		}
		return array, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return DecodeOrderedJSON(data)
}

// orderedNested is like orderedValue but keeps
// strings as they are, they are values not encoded JSON.
func orderedNested(value any) (any, error) {
	switch x := value.(type) {
	case nil, string, bool, json.Number:
		return x, nil
	}
	return orderedValue(value)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareNatural)
	return keys
}

// compareNatural compares ids like "col2" and "col10"
// by their number if they share a prefix.
func compareNatural(a, b string) int {
	pa, na, oka := splitNumberSuffix(a)
	pb, nb, okb := splitNumberSuffix(b)
	if oka && okb && pa == pb && na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func splitNumberSuffix(s string) (prefix string, n int, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, ok = parseSeqID(s[:i], s)
	return s[:i], n, ok
}

type orderedEntry struct {
	key   string
	value any
}

// orderedEntries returns the entries of an ordered object or array.
// Array entries have an empty key and keyed is false.
func orderedEntries(value any) (entries []orderedEntry, keyed, ok bool) {
	switch x := value.(type) {
	case *orderedmap.OrderedMap:
		entries = make([]orderedEntry, 0, x.Len())
		for el := x.Front(); el != nil; el = el.Next() {
			entries = append(entries, orderedEntry{key: fmt.Sprint(el.Key), value: el.Value})
		}
		return entries, true, true
	case []any:
		entries = make([]orderedEntry, len(x))
		for i := range x {
			entries[i].value = x[i]
		}
		return entries, false, true
	}
	return nil, false, false
}
