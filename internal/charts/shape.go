// Package charts shapes report rows into chart series and renders them.
//
// The shaping functions are pure and independent of any drawing backend;
// render.go turns their output into images with go-chart, and pentagon.go
// builds the radar chart as a scene.
package charts

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// MonthsPerYear is the number of slots in a yearly series.
const MonthsPerYear = 12

// Defaults for the ranking cut-offs.
const (
	DefaultTopN = 10
	DefaultTopK = 3
)

// OtherLabel names the slice that collects everything past the top N.
const OtherLabel = "Other"

// MissingItem fills stack slots for categories with fewer than K items.
const MissingItem = "N/A"

// YearMonthValue is one (year, month, total) row.
type YearMonthValue struct {
	Year  string
	Month int
	Value float64
}

// LabeledValue is one (label, value) row.
type LabeledValue struct {
	Label string
	Value float64
}

// CategoryItem is one (category, item, value) row.
type CategoryItem struct {
	Category string
	Item     string
	Value    float64
}

// Series is a named sequence of values.
type Series struct {
	Name   string
	Values []float64
}

// Slice is one pie segment.
type Slice struct {
	Label string
	Value float64
}

// StackSet is the i-th ranked item of every category.
type StackSet struct {
	Name   string
	Items  []string
	Values []float64
}

// Stacked is a stacked bar layout: one bar per category, one set per rank.
type Stacked struct {
	Categories []string
	Sets       []StackSet
}

// MonthlyByYear builds one 12-slot series per year, sorted by year. Months
// without data stay 0 and months outside 1..12 are ignored.
func MonthlyByYear(rows []YearMonthValue) []Series {
	byYear := make(map[string][]float64)
	for _, r := range rows {
		if r.Month < 1 || r.Month > MonthsPerYear {
			continue
		}
		values, ok := byYear[r.Year]
		if !ok {
			values = make([]float64, MonthsPerYear)
			byYear[r.Year] = values
		}
		values[r.Month-1] = r.Value
	}

	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)

	out := make([]Series, 0, len(years))
	for _, y := range years {
		out = append(out, Series{Name: y, Values: byYear[y]})
	}
	return out
}

// TopNWithOther keeps the first n rows as slices and sums the rest into an
// "Other" slice when that sum is positive. Rows are expected in ranked order.
func TopNWithOther(rows []LabeledValue, n int) []Slice {
	if n < 0 {
		n = 0
	}
	var out []Slice
	var rest []float64
	for i, r := range rows {
		if i < n {
			out = append(out, Slice{Label: r.Label, Value: r.Value})
			continue
		}
		rest = append(rest, r.Value)
	}
	if other := floats.Sum(rest); other > 0 {
		out = append(out, Slice{Label: OtherLabel, Value: other})
	}
	return labelSlices(out)
}

// Pie turns rows into labelled slices.
func Pie(rows []LabeledValue) []Slice {
	out := make([]Slice, len(rows))
	for i, r := range rows {
		out[i] = Slice{Label: r.Label, Value: r.Value}
	}
	return labelSlices(out)
}

func labelSlices(slices []Slice) []Slice {
	for i := range slices {
		slices[i].Label = slices[i].Label + ": " + FormatNumber(slices[i].Value)
	}
	return slices
}

// TopKByCategory keeps the first k items of every category. Rows must be
// ordered by category, then value descending. Categories come out sorted and
// missing ranks are filled with MissingItem and 0.
func TopKByCategory(rows []CategoryItem, k int) Stacked {
	if k < 0 {
		k = 0
	}
	byCategory := make(map[string][]CategoryItem)
	for _, r := range rows {
		items := byCategory[r.Category]
		if len(items) < k {
			items = append(items, r)
		}
		byCategory[r.Category] = items
	}

	var out Stacked
	for c := range byCategory {
		out.Categories = append(out.Categories, c)
	}
	sort.Strings(out.Categories)

	out.Sets = make([]StackSet, k)
	for i := range out.Sets {
		set := StackSet{Name: "Top " + strconv.Itoa(i+1)}
		for _, c := range out.Categories {
			items := byCategory[c]
			if i < len(items) {
				set.Items = append(set.Items, items[i].Item)
				set.Values = append(set.Values, items[i].Value)
			} else {
				set.Items = append(set.Items, MissingItem)
				set.Values = append(set.Values, 0)
			}
		}
		out.Sets[i] = set
	}
	return out
}

// FormatNumber renders a value for chart labels, without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
