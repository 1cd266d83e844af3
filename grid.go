package tablemaker

import "fmt"

// ChangeKind is the kind of mutation a grid editor notifies about.
type ChangeKind int

const (
	ColumnAdded ChangeKind = iota
	ColumnDeleted
	ColumnMoved
	// ColumnEdited is an in-place edit of a column attribute.
	ColumnEdited

	RowAdded
	RowDeleted
	RowMoved
	// CellEdited is an in-place edit of a cell value.
	CellEdited
)

func (k ChangeKind) String() string {
	switch k {
	case ColumnAdded:
		return "ColumnAdded"
	case ColumnDeleted:
		return "ColumnDeleted"
	case ColumnMoved:
		return "ColumnMoved"
	case ColumnEdited:
		return "ColumnEdited"
	case RowAdded:
		return "RowAdded"
	case RowDeleted:
		return "RowDeleted"
	case RowMoved:
		return "RowMoved"
	case CellEdited:
		return "CellEdited"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Structural returns true for changes that add, remove or reorder
// columns or rows as opposed to in-place edits.
func (k ChangeKind) Structural() bool {
	return k != ColumnEdited && k != CellEdited
}

// ColumnChange is the notification of a ColumnsGrid mutation.
type ColumnChange struct {
	Kind     ChangeKind
	ColumnID ColumnID
	// Attribute is the edited attribute for ColumnEdited
	Attribute string
}

// RowChange is the notification of a RowsGrid mutation.
type RowChange struct {
	Kind  ChangeKind
	RowID RowID
	// ColumnID is set for CellEdited
	ColumnID ColumnID
}

func moveElem[T any](s []T, from, to int) {
	elem := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = elem
}
