package tablemaker

import (
	"html/template"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructFieldNaming_StructColumns(t *testing.T) {
	type StructWithFloat struct {
		Float float64 `col:"float"`
	}
	tests := []struct {
		name   string
		naming *StructFieldNaming
		strct  any
		want   []string
	}{
		{
			name:   "empty struct, nil naming",
			naming: nil,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported and private names, nil naming",
			naming: nil,
			strct: struct {
				Int    int
				Bool   bool
				hidden string
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "mixed, nil naming",
			naming: nil,
			strct: struct {
				Int int
				StructWithFloat
				Struct struct {
					Sub bool
				}
				hidden string
			}{},
			want: []string{"Int", "Float", "Struct"},
		},
		{
			name:   "exported and private names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int        int  `col:"Integer"`
				Bool       bool `col:"-"`
				hidden     string
				HelloWorld string
			}{},
			want: []string{"Integer", "Hello World"},
		},
		{
			name:   "mixed, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				hidden string `col:"-"`
				Int    int
				StructWithFloat
				Struct struct {
					Sub bool
				}
			}{},
			want: []string{"Int", "float", "Struct"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns := tt.naming.StructColumns(reflect.TypeOf(tt.strct))
			got := make([]string, len(columns))
			for i, col := range columns {
				got[i] = col.Heading
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFromStructs(t *testing.T) {
	type entry struct {
		Name     string
		Price    float64 `col:"Price,width=20%"`
		InStock  bool
		Note     template.HTML
		Updated  *time.Time `col:",left"`
		internal int
		Skipped  string `col:"-"`
	}
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc, err := FromStructs([]*entry{
		{Name: "Tea", Price: 2, InStock: true, Note: "<b>hot</b>", Updated: &updated},
		{Name: "Coffee", Price: 3.5},
	}, &DefaultStructFieldNaming)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Price", "In Stock", "Note", "Updated"}, doc.Headings())
	assert.Equal(t, []Column{
		{ID: "col0", Heading: "Name", FieldType: FieldTypeSingleLine, Align: AlignLeft},
		{ID: "col1", Heading: "Price", FieldType: FieldTypeSingleLine, Align: AlignRight, Width: "20%"},
		{ID: "col2", Heading: "In Stock", FieldType: FieldTypeCheckbox, Align: AlignCenter},
		{ID: "col3", Heading: "Note", FieldType: FieldTypeHTML, Align: AlignLeft},
		{ID: "col4", Heading: "Updated", FieldType: FieldTypeSingleLine, Align: AlignLeft},
	}, doc.Columns)

	stored := ToStorage(doc, nil)
	assert.Equal(t, [][]any{
		{"Tea", "2", true, "<b>hot</b>", "2024-05-01T12:00:00Z"},
		{"Coffee", "3.5", false, "", ""},
	}, stored.Rows)
	assert.Equal(t, ColumnID("col5"), doc.NewColumnID())

	_, err = FromStructs("not a slice", nil)
	assert.Error(t, err)
	_, err = FromStructs([]int{1}, nil)
	assert.Error(t, err)
	_, err = FromStructs([]*entry{nil}, nil)
	assert.Error(t, err)

	empty, err := FromStructs([]entry{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Price", "In Stock", "Note", "Updated"}, empty.Headings(), "nil naming uses DefaultStructFieldNaming")
	assert.Empty(t, empty.Rows)
}

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "helloWorld_", name: "helloWorld_", want: "hello World"},
		{testName: "ThisHasMoreSpacesForSure", name: "ThisHasMoreSpacesForSure", want: "This Has More Spaces For Sure"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}
