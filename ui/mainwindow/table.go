package mainwindow

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"sales-analytics/internal/scene"
)

const (
	columnWidth = 180
	// maxColumns covers the widest report table.
	maxColumns = 3
)

// tableView shows a report's table model. The model may be replaced from
// the database watcher goroutine while the table reads it.
type tableView struct {
	mu      sync.RWMutex
	headers []string
	rows    [][]string
	table   *widget.Table
}

var _ scene.TableSink = (*tableView)(nil)

func newTableView() *tableView {
	tv := &tableView{}
	tv.table = widget.NewTable(
		tv.size,
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(tv.cell(id.Row, id.Col))
		},
	)
	tv.table.ShowHeaderRow = true
	for i := 0; i < maxColumns; i++ {
		tv.table.SetColumnWidth(i, columnWidth)
	}
	tv.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	tv.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(tv.header(id.Col))
	}
	return tv
}

// SetTableModel implements scene.TableSink.
func (tv *tableView) SetTableModel(headers []string, rows [][]string) {
	tv.mu.Lock()
	tv.headers = headers
	tv.rows = rows
	tv.mu.Unlock()
	tv.table.Refresh()
}

func (tv *tableView) size() (int, int) {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return len(tv.rows), len(tv.headers)
}

func (tv *tableView) header(col int) string {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	if col < 0 || col >= len(tv.headers) {
		return ""
	}
	return tv.headers[col]
}

func (tv *tableView) cell(row, col int) string {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	if row < 0 || row >= len(tv.rows) || col < 0 || col >= len(tv.rows[row]) {
		return ""
	}
	return tv.rows[row][col]
}
