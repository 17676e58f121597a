package query

// TableModel is the header row plus display strings for a table view.
type TableModel struct {
	Headers []string
	Rows    [][]string
}

// CollectTable drains rs into a table with one column per header, taken
// by position.
func CollectTable(rs *RowSet, headers []string) TableModel {
	model := TableModel{Headers: headers}
	for rs.Next() {
		row := make([]string, len(headers))
		for col := range headers {
			row[col] = FormatValue(rs.ValueAt(col))
		}
		model.Rows = append(model.Rows, row)
	}
	return model
}
