// Package app holds the dashboard state: the open sales database, the
// report actions behind the window's buttons, and the event bus the views
// subscribe to.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"sales-analytics/internal/charts"
	"sales-analytics/internal/config"
	"sales-analytics/internal/geo"
	"sales-analytics/internal/query"
)

// Runner executes report statements. *query.Engine implements it.
type Runner interface {
	Run(ctx context.Context, stmt query.Statement) *query.RowSet
	Driver() string
	Path() string
	Close() error
}

var _ Runner = (*query.Engine)(nil)

// State holds the application state: configuration, the open database and
// the last report shown.
type State struct {
	mu sync.RWMutex

	cfg        *config.Config
	runner     Runner
	background string
	current    Report
	hasCurrent bool

	renderer *geo.Renderer
	charts   charts.Renderer
	log      zerolog.Logger

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDatabaseOpened EventType = iota
	EventDatabaseModified
	EventTableChanged
	EventChartChanged
	EventSceneChanged
	EventReportFailed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates the application state. runner may be nil until a
// database is opened.
func NewState(cfg *config.Config, runner Runner, log zerolog.Logger) *State {
	locations := geo.DefaultLocations(cfg.Map.Locations)
	log.Debug().Strs("countries", locations.Names()).Msg("map locations")
	opts := geo.Options{
		IntensityCeiling: cfg.Map.IntensityCeiling,
		RadiusFactor:     cfg.Map.RadiusFactor,
	}
	return &State{
		cfg:        cfg,
		runner:     runner,
		background: cfg.Map.Background,
		renderer:   geo.NewRenderer(locations, opts, log.With().Str("component", "geo").Logger()),
		charts:     charts.NewRenderer(cfg.Charts.Width, cfg.Charts.Height),
		log:        log,
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the configuration the state was built with.
func (s *State) Config() *config.Config {
	return s.cfg
}

// OpenDatabase opens path with the configured driver, replacing any open
// database, and emits EventDatabaseOpened with the path.
func (s *State) OpenDatabase(ctx context.Context, path string) error {
	engine, err := query.Open(ctx, s.cfg.Database.Driver, path, s.log.With().Str("component", "query").Logger())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	s.mu.Lock()
	old := s.runner
	s.runner = engine
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.log.Warn().Err(err).Str("path", old.Path()).Msg("closing previous database")
		}
	}
	s.Emit(EventDatabaseOpened, path)
	return nil
}

// DatabasePath returns the open database path, or "".
func (s *State) DatabasePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runner == nil {
		return ""
	}
	return s.runner.Path()
}

// SetBackground sets the map background image used by later map reports.
func (s *State) SetBackground(path string) {
	s.mu.Lock()
	s.background = path
	s.mu.Unlock()
}

// Background returns the map background image path.
func (s *State) Background() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

// Current returns the last report run, if any.
func (s *State) Current() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}

// Close closes the open database.
func (s *State) Close() error {
	s.mu.Lock()
	r := s.runner
	s.runner = nil
	s.mu.Unlock()
	if r == nil {
		return nil
	}
	return r.Close()
}

func (s *State) runnerOrErr() (Runner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runner == nil {
		return nil, ErrNoDatabase
	}
	return s.runner, nil
}

func (s *State) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Database.QueryTimeout)
}
