package query

import (
	"database/sql"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// RowSet is a lazy, finite, single-pass sequence of result rows.
type RowSet struct {
	rows    *sql.Rows
	columns []string
	index   map[string]int
	current []any
	err     error
	done    bool
}

func newRowSet(rows *sql.Rows, columns []string) *RowSet {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &RowSet{rows: rows, columns: columns, index: index}
}

func failed(err error) *RowSet {
	return &RowSet{err: err, done: true, index: map[string]int{}}
}

// Next advances to the next row. It returns false at the end of the set or
// on error and closes the underlying cursor.
func (r *RowSet) Next() bool {
	if r.done {
		return false
	}
	if !r.rows.Next() {
		r.finish(r.rows.Err())
		return false
	}

	values := make([]any, len(r.columns))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.finish(fmt.Errorf("scan row: %w", err))
		return false
	}
	r.current = values
	return true
}

func (r *RowSet) finish(err error) {
	r.done = true
	r.current = nil
	if err != nil && r.err == nil {
		r.err = err
	}
	if r.rows != nil {
		if cerr := r.rows.Close(); cerr != nil && r.err == nil {
			r.err = cerr
		}
	}
}

// Close releases the cursor early. Iterating to the end closes it as well.
func (r *RowSet) Close() error {
	if !r.done {
		r.finish(nil)
	}
	return r.err
}

// Err reports the query or iteration failure, if any.
func (r *RowSet) Err() error {
	return r.err
}

// Value returns the named column of the current row, or nil.
func (r *RowSet) Value(column string) any {
	i, ok := r.index[column]
	if !ok {
		return nil
	}
	return r.ValueAt(i)
}

// ValueAt returns the i-th column of the current row, or nil.
func (r *RowSet) ValueAt(i int) any {
	if i < 0 || i >= len(r.current) {
		return nil
	}
	return r.current[i]
}

// String returns the named column formatted for display.
func (r *RowSet) String(column string) string {
	return FormatValue(r.Value(column))
}

// Float returns the named column as a number; non-numeric values are 0.
func (r *RowSet) Float(column string) float64 {
	return ToFloat(r.Value(column))
}

// Int returns the named column truncated to an int.
func (r *RowSet) Int(column string) int {
	return int(ToFloat(r.Value(column)))
}

// FormatValue renders a scanned value the way the table view shows it.
// Floats drop trailing zeros.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case *big.Int:
		return v.String()
	case interface{ Float64() float64 }:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// ToFloat converts a scanned value to float64. Unparseable values give 0.
func ToFloat(v any) float64 {
	switch v := v.(type) {
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f
	case interface{ Float64() float64 }:
		return v.Float64()
	case nil:
		return 0
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(FormatValue(v)), 64)
		if err != nil {
			return 0
		}
		return f
	}
}
