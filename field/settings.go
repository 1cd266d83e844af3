package field

import (
	"github.com/domonda/go-tablemaker"
)

// Settings are the label and instruction texts of the two grids.
// Empty settings use the defaults of Labels.
type Settings struct {
	ColumnsLabel        string `json:"columnsLabel,omitempty" yaml:"columns_label"`
	ColumnsInstructions string `json:"columnsInstructions,omitempty" yaml:"columns_instructions"`
	ColumnsAddRowLabel  string `json:"columnsAddRowLabel,omitempty" yaml:"columns_add_row_label"`
	RowsLabel           string `json:"rowsLabel,omitempty" yaml:"rows_label"`
	RowsInstructions    string `json:"rowsInstructions,omitempty" yaml:"rows_instructions"`
	RowsAddRowLabel     string `json:"rowsAddRowLabel,omitempty" yaml:"rows_add_row_label"`
}

// Labels are the resolved texts shown by the editor.
type Labels struct {
	ColumnsLabel        string `json:"columnsLabel"`
	ColumnsInstructions string `json:"columnsInstructions"`
	ColumnsAddRowLabel  string `json:"columnsAddRowLabel"`
	RowsLabel           string `json:"rowsLabel"`
	RowsInstructions    string `json:"rowsInstructions"`
	RowsAddRowLabel     string `json:"rowsAddRowLabel"`
}

// DefaultLabels are used for empty Settings.
var DefaultLabels = Labels{
	ColumnsLabel:        "Table Columns",
	ColumnsInstructions: "Define the columns your table should have.",
	ColumnsAddRowLabel:  "Add a column",
	RowsLabel:           "Table Content",
	RowsInstructions:    "Input the content of your table.",
	RowsAddRowLabel:     "Add a row",
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Labels returns the settings with defaults for empty values.
func (s Settings) Labels() Labels {
	return Labels{
		ColumnsLabel:        orDefault(s.ColumnsLabel, DefaultLabels.ColumnsLabel),
		ColumnsInstructions: orDefault(s.ColumnsInstructions, DefaultLabels.ColumnsInstructions),
		ColumnsAddRowLabel:  orDefault(s.ColumnsAddRowLabel, DefaultLabels.ColumnsAddRowLabel),
		RowsLabel:           orDefault(s.RowsLabel, DefaultLabels.RowsLabel),
		RowsInstructions:    orDefault(s.RowsInstructions, DefaultLabels.RowsInstructions),
		RowsAddRowLabel:     orDefault(s.RowsAddRowLabel, DefaultLabels.RowsAddRowLabel),
	}
}

// SelectOption is one option of a select column setting.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ColumnSetting describes one input of the columns grid.
type ColumnSetting struct {
	Key     string         `json:"-"`
	Heading string         `json:"heading"`
	Class   string         `json:"class,omitempty"`
	Type    string         `json:"type"`
	Width   int            `json:"width,omitempty"`
	Options []SelectOption `json:"options,omitempty"`
}

// FieldTypeOptions returns the selectable column types.
// Wysiwyg is only offered if rich text is available.
func (f *Field) FieldTypeOptions() []SelectOption {
	options := []SelectOption{
		{Value: string(tablemaker.FieldTypeSingleLine), Label: "Text"},
		{Value: string(tablemaker.FieldTypeCheckbox), Label: "Lightswitch"},
	}
	if f.richText().Available() {
		options = append(options, SelectOption{Value: string(tablemaker.FieldTypeHTML), Label: "Wysiwyg"})
	}
	return options
}

// ColumnSettings returns the inputs of the columns grid in display order.
func (f *Field) ColumnSettings() []ColumnSetting {
	return []ColumnSetting{
		{
			Key:     tablemaker.AttrHeading,
			Heading: "Heading",
			Type:    "singleline",
		},
		{
			Key:     tablemaker.AttrFieldType,
			Heading: "Field type",
			Class:   "thin",
			Type:    "select",
			Options: f.FieldTypeOptions(),
		},
		{
			Key:     tablemaker.AttrWidth,
			Heading: "Width",
			Class:   "code",
			Type:    "singleline",
			Width:   50,
		},
		{
			Key:     tablemaker.AttrAlign,
			Heading: "Alignment",
			Class:   "thin",
			Type:    "select",
			Options: []SelectOption{
				{Value: string(tablemaker.AlignLeft), Label: "Left"},
				{Value: string(tablemaker.AlignCenter), Label: "Center"},
				{Value: string(tablemaker.AlignRight), Label: "Right"},
			},
		},
	}
}
