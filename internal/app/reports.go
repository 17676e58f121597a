package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"sales-analytics/internal/charts"
	"sales-analytics/internal/geo"
	"sales-analytics/internal/query"
	"sales-analytics/internal/scene"
	"sales-analytics/pkg/geometry"
)

// ErrNoDatabase is returned by reports run before a database is open.
var ErrNoDatabase = errors.New("no database open")

// Report identifies one dashboard button.
type Report int

const (
	ReportMonthlySales Report = iota
	ReportRevenueByGenre
	ReportTopArtistsByGenre
	ReportTopArtists
	ReportMap
)

// Reports lists the reports in button order.
var Reports = []Report{
	ReportMonthlySales,
	ReportRevenueByGenre,
	ReportTopArtistsByGenre,
	ReportTopArtists,
	ReportMap,
}

// String returns the button label.
func (r Report) String() string {
	switch r {
	case ReportMonthlySales:
		return "Monthly Sales"
	case ReportRevenueByGenre:
		return "Revenue by Genre"
	case ReportTopArtistsByGenre:
		return "Top 3 Artists"
	case ReportTopArtists:
		return "Top 5 Artists"
	case ReportMap:
		return "Interactive Map"
	default:
		return fmt.Sprintf("Report(%d)", int(r))
	}
}

// ParseReport finds a report by its button label.
func ParseReport(label string) (Report, bool) {
	for _, r := range Reports {
		if r.String() == label {
			return r, true
		}
	}
	return 0, false
}

// TableEvent carries a new table model. Emitted with EventTableChanged.
type TableEvent struct {
	Report Report
	Model  query.TableModel
}

// ChartEvent carries a rendered chart. Image is nil when there was nothing
// to plot. Emitted with EventChartChanged.
type ChartEvent struct {
	Report Report
	Title  string
	Image  image.Image
}

// SceneEvent carries a scene for the graphics view. Emitted with
// EventSceneChanged; the view replaces its scene and resets its viewport.
type SceneEvent struct {
	Report     Report
	Scene      *scene.Scene
	Unresolved []string
}

// FailureEvent is emitted with EventReportFailed.
type FailureEvent struct {
	Report Report
	Err    error
}

// Run executes a report and emits its table, chart and scene events.
// Query failures are logged and show up as empty results; only a missing
// database is returned as an error.
func (s *State) Run(ctx context.Context, r Report) error {
	runner, err := s.runnerOrErr()
	if err != nil {
		s.Emit(EventReportFailed, FailureEvent{Report: r, Err: err})
		return err
	}

	s.log.Debug().Str("report", r.String()).Msg("running report")

	switch r {
	case ReportMonthlySales:
		s.monthlySales(ctx, runner)
	case ReportRevenueByGenre:
		s.revenueByGenre(ctx, runner)
	case ReportTopArtistsByGenre:
		s.topArtistsByGenre(ctx, runner)
	case ReportTopArtists:
		s.topArtists(ctx, runner)
	case ReportMap:
		sc, res := s.MapScene(ctx)
		s.Emit(EventSceneChanged, SceneEvent{Report: r, Scene: sc, Unresolved: res.Unresolved})
	default:
		return fmt.Errorf("unknown report %d", int(r))
	}

	s.mu.Lock()
	s.current, s.hasCurrent = r, true
	s.mu.Unlock()
	return nil
}

// Rerun repeats the last report, if any.
func (s *State) Rerun(ctx context.Context) error {
	r, ok := s.Current()
	if !ok {
		return nil
	}
	return s.Run(ctx, r)
}

func (s *State) table(ctx context.Context, runner Runner, r Report, stmt query.Statement, headers []string) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rs := runner.Run(ctx, stmt)
	model := query.CollectTable(rs, headers)
	s.logFailure(r, stmt, rs)
	s.Emit(EventTableChanged, TableEvent{Report: r, Model: model})
}

func (s *State) chart(r Report, title string, img image.Image, err error) {
	if err != nil && !errors.Is(err, charts.ErrNoData) {
		s.log.Error().Err(err).Str("report", r.String()).Msg("chart rendering failed")
	}
	s.Emit(EventChartChanged, ChartEvent{Report: r, Title: title, Image: img})
}

func (s *State) logFailure(r Report, stmt query.Statement, rs *query.RowSet) {
	if err := rs.Err(); err != nil {
		s.log.Warn().Err(err).Str("report", r.String()).Str("statement", stmt.Name).Msg("report shows empty result")
	}
}

func (s *State) monthlySales(ctx context.Context, runner Runner) {
	r := ReportMonthlySales
	s.table(ctx, runner, r, query.MonthlySales, []string{"D", "Total sales"})

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rs := runner.Run(ctx, query.MonthlySalesByYear)
	var rows []charts.YearMonthValue
	for rs.Next() {
		rows = append(rows, charts.YearMonthValue{
			Year:  rs.String("Year"),
			Month: rs.Int("Month"),
			Value: rs.Float("TotalSales"),
		})
	}
	s.logFailure(r, query.MonthlySalesByYear, rs)

	img, err := s.charts.MonthlyByYear(charts.MonthlyByYear(rows))
	s.chart(r, charts.TitleMonthly, img, err)
}

func (s *State) revenueByGenre(ctx context.Context, runner Runner) {
	r := ReportRevenueByGenre
	s.table(ctx, runner, r, query.RevenueByGenre, []string{"Genre", "Revenue"})

	rows := s.labeled(ctx, runner, r, query.RevenueByGenre, "GenreName", "Revenue")
	img, err := s.charts.Pie(charts.TitleGenreRevenue, charts.TopNWithOther(rows, s.cfg.Charts.TopGenres))
	s.chart(r, charts.TitleGenreRevenue, img, err)
}

func (s *State) topArtistsByGenre(ctx context.Context, runner Runner) {
	r := ReportTopArtistsByGenre
	s.table(ctx, runner, r, query.TopArtistsByGenre, []string{"Genre", "Artist", "Total Sales"})

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rs := runner.Run(ctx, query.ArtistSalesByGenre)
	var rows []charts.CategoryItem
	for rs.Next() {
		rows = append(rows, charts.CategoryItem{
			Category: rs.String("GenreName"),
			Item:     rs.String("ArtistName"),
			Value:    rs.Float("TotalSales"),
		})
	}
	s.logFailure(r, query.ArtistSalesByGenre, rs)

	img, err := s.charts.StackedBars(charts.TitleTopArtists, charts.TopKByCategory(rows, s.cfg.Charts.TopArtists))
	s.chart(r, charts.TitleTopArtists, img, err)
}

func (s *State) topArtists(ctx context.Context, runner Runner) {
	r := ReportTopArtists
	s.table(ctx, runner, r, query.TopArtistsOverall, []string{"Artist", "Total Quantity", "Total Sales"})

	rows := s.labeled(ctx, runner, r, query.TopArtistsRevenue, "ArtistName", "Revenue")
	s.Emit(EventSceneChanged, SceneEvent{Report: r, Scene: charts.PentagonScene(rows)})

	img, err := s.charts.Pie(charts.TitleTop5Revenue, charts.Pie(rows))
	s.chart(r, charts.TitleTop5Revenue, img, err)
}

func (s *State) labeled(ctx context.Context, runner Runner, r Report, stmt query.Statement, labelCol, valueCol string) []charts.LabeledValue {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rs := runner.Run(ctx, stmt)
	var rows []charts.LabeledValue
	for rs.Next() {
		rows = append(rows, charts.LabeledValue{Label: rs.String(labelCol), Value: rs.Float(valueCol)})
	}
	s.logFailure(r, stmt, rs)
	return rows
}

// MapScene runs the country/genre aggregate and lays out the bubble map.
// Without a database it returns the background-only scene.
func (s *State) MapScene(ctx context.Context) (*scene.Scene, geo.Result) {
	var rows []geo.AggregateRow
	if runner, err := s.runnerOrErr(); err == nil {
		ctx, cancel := s.queryContext(ctx)
		defer cancel()

		rs := runner.Run(ctx, query.SalesByCountryGenre)
		for rs.Next() {
			rows = append(rows, geo.AggregateRow{
				GroupKey: rs.String("BillingCountry"),
				SubKey:   rs.String("GenreName"),
				Measure:  rs.Float("TotalSales"),
			})
		}
		s.logFailure(ReportMap, query.SalesByCountryGenre, rs)
	}

	res := s.renderer.Render(rows)
	size := geometry.NewSize(float64(s.cfg.Map.Width), float64(s.cfg.Map.Height))
	return res.Scene(size, s.Background()), res
}
