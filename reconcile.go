package tablemaker

// Reconcile returns rows re-attached to the passed columns.
//
// For every column the value of a row is looked up by the column id.
// If the row has no value for the id, the value at the same index
// of the row's ordered values is used instead, but only if that
// value's key is not the id of a live or retired column.
//
// The returned rows hold the values of all columns in column order,
// followed by the row's remaining values (orphans and unmatched keys).
// Columns without a value get an empty string.
//
// Reconcile does not modify the passed rows.
func Reconcile(columns []Column, rows []Row, retired ColumnIDSet) []Row {
	known := retired.Clone()
	for i := range columns {
		known.Add(columns[i].ID)
	}

	result := make([]Row, len(rows))
	for r := range rows {
		result[r] = reconcileRow(columns, &rows[r], known)
	}
	return result
}

func reconcileRow(columns []Column, row *Row, known ColumnIDSet) Row {
	var (
		reconciled = NewRow(row.ID)
		consumed   = make(ColumnIDSet, len(columns))
	)
	for i := range columns {
		value, key, ok := lookupCell(columns[i].ID, i, row, known, consumed)
		if !ok {
			reconciled.Set(columns[i].ID, "")
			continue
		}
		consumed.Add(key)
		reconciled.Set(columns[i].ID, value)
	}
	row.Each(func(id ColumnID, value any) bool {
		if !consumed.Contains(id) && !reconciled.has(id) {
			reconciled.Set(id, value)
		}
		return true
	})
	return reconciled
}

// lookupCell returns the value for the column id at index of the row
// together with the key it was found under.
// Positional fallback skips keys in known and consumed.
func lookupCell(id ColumnID, index int, row *Row, known, consumed ColumnIDSet) (value any, key ColumnID, ok bool) {
	if value, ok := row.Get(id); ok {
		return value, id, true
	}
	key, value, ok = row.At(index)
	if !ok || known.Contains(key) || consumed.Contains(key) {
		return nil, "", false
	}
	return value, key, true
}

func (r *Row) has(id ColumnID) bool {
	_, ok := r.Get(id)
	return ok
}
