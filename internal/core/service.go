package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// Defaults applied to zero ServiceConfig fields.
const (
	DefaultMaxSessions = 1000
	DefaultLoadTimeout = 15 * time.Second
)

// ServiceConfig holds the table and session settings shared by every session.
type ServiceConfig struct {
	PageSize           int               // Rows per page unless the table overrides it
	MaxRows            int               // Largest dataset a session accepts
	SelectScope        table.SelectScope // Rows covered by select-all
	MaxSessions        int               // Live session limit
	LoadTimeout        time.Duration     // Per-load deadline
	MaxConcurrentLoads int               // Parallel source loads
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.PageSize <= 0 {
		c.PageSize = table.DefaultPageSize
	}
	if c.MaxRows <= 0 {
		c.MaxRows = table.DefaultMaxRows
	}
	if c.SelectScope == "" {
		c.SelectScope = table.ScopePage
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = DefaultLoadTimeout
	}
	return c
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithMetrics records session, event and memo metrics.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithRegistry serves tables from r instead of the default registry.
func WithRegistry(r *Registry) ServiceOption {
	return func(s *Service) { s.registry = r }
}

// WithClock replaces time.Now, for sweeper tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// Service owns the live table sessions. Each session wraps one table.Table;
// the table itself is single-threaded, so every session carries its own lock.
type Service struct {
	cfg      ServiceConfig
	registry *Registry
	limiter  *LoadLimiter
	metrics  *Metrics
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id       string
	def      TableDefinition
	lastUsed atomic.Int64 // unix nanos, read by the sweeper without mu

	mu       sync.Mutex
	tbl      *table.Table
	loadedAt time.Time
}

// NewService creates a service. Zero config fields take their defaults.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	cfg = cfg.withDefaults()
	s := &Service{
		cfg:      cfg,
		registry: defaultRegistry,
		limiter:  NewLoadLimiter(cfg.MaxConcurrentLoads, cfg.LoadTimeout),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	defs := s.registry.All()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// ListTablesByGroup returns tables organized by group.
func (s *Service) ListTablesByGroup() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, group := range s.registry.Groups() {
		for _, def := range s.registry.ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// CreateSession loads a table's records and opens a new session over them.
func (s *Service) CreateSession(ctx context.Context, tableKey string) (*SessionView, error) {
	def, ok := s.registry.Get(tableKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, tableKey)
	}

	// Cheap check before paying for a load
	if s.SessionCount() >= s.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	records, err := s.loadRecords(ctx, def)
	if err != nil {
		return nil, err
	}

	cols, err := def.ColumnSet()
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Info.Key, err)
	}

	pageSize := s.cfg.PageSize
	if def.PageSize > 0 {
		pageSize = def.PageSize
	}

	tbl, err := table.NewTable(records, cols, def.KeyField,
		table.WithPageSize(pageSize),
		table.WithSelectScope(s.cfg.SelectScope),
		table.WithMaxRows(s.cfg.MaxRows),
		table.WithInitialSort(def.DefaultSort),
		table.WithObserver(s.metrics.observer()),
	)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Info.Key, err)
	}

	sess := &session{
		id:       uuid.NewString(),
		def:      def,
		tbl:      tbl,
		loadedAt: s.now(),
	}
	sess.touch(s.now())

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, ErrTooManySessions
	}
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.setSessions(count)
	logging.WithFields(ctx,
		"session_id", sess.id,
		"table", def.Info.Key,
		"rows", len(records),
	).Info("session created", logAttrs(ctx)...)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// View returns the current view of a session.
func (s *Service) View(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Apply runs one event against a session and returns the resulting view.
// A rejected event leaves the session unchanged.
func (s *Service) Apply(ctx context.Context, id string, ev Event) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := applyEvent(sess.tbl, ev); err != nil {
		return nil, fmt.Errorf("apply %s: %w", ev.Type, err)
	}
	s.metrics.recordEvent(ev.Type)

	logging.WithFields(ctx, "session_id", id, "table", sess.def.Info.Key).
		Debug("event applied", "type", ev.Type, "column", ev.Column)

	return sess.snapshot(), nil
}

// invalidator is implemented by caching sources such as datasource.Cached.
type invalidator interface {
	Invalidate()
}

// Refresh reloads a session's records from its source. Query, filters, sort
// and selection are kept; selected ids that disappear are ignored.
func (s *Service) Refresh(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if inv, ok := sess.def.Source.(invalidator); ok {
		inv.Invalidate()
	}

	// Load outside the session lock so views stay responsive
	records, err := s.loadRecords(ctx, sess.def)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.tbl.SetRecords(records, nil); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", sess.def.Info.Key, err)
	}
	sess.loadedAt = s.now()

	logging.WithFields(ctx, "session_id", id, "table", sess.def.Info.Key).
		Info("session refreshed", "rows", len(records))

	return sess.snapshot(), nil
}

// CloseSession discards a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.metrics.setSessions(count)
	logging.WithFields(ctx, "session_id", id, "table", sess.def.Info.Key).
		Info("session closed", logAttrs(ctx)...)
	return nil
}

// ExportRows returns the rows for an export along with the columns to write.
// ExportFiltered yields every filtered row in sort order; ExportSelected
// yields the selected rows in dataset order.
func (s *Service) ExportRows(ctx context.Context, id string, scope ExportScope) ([]table.Record, []table.ColumnSpec, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var rows []table.Record
	switch scope {
	case ExportFiltered:
		rows = sess.tbl.FilteredRows()
	case ExportSelected:
		rows = sess.tbl.SelectedRows()
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidExportScope, scope)
	}

	logging.WithFields(ctx, "session_id", id, "table", sess.def.Info.Key).
		Info("rows exported", "scope", scope, "rows", len(rows))

	return rows, sess.tbl.Columns().Specs(), nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LoadStatus reports the load limiter's state.
func (s *Service) LoadStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// Drain waits for in-flight source loads to finish.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// WarmUp loads every registered table once, concurrently, so caching sources
// are primed before the first session opens. It returns the first failure.
func (s *Service) WarmUp(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, def := range s.registry.All() {
		g.Go(func() error {
			_, err := s.loadRecords(gctx, def)
			return err
		})
	}
	return g.Wait()
}

func (s *Service) get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch(s.now())
	return sess, nil
}

// loadRecords fetches a table's records under the load limiter and timeout.
func (s *Service) loadRecords(ctx context.Context, def TableDefinition) ([]table.Record, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("table %s: %w", def.Info.Key, err)
	}
	defer s.limiter.Release()

	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	records, err := def.Source.Load(loadCtx)
	s.metrics.recordLoad(def.Info.Key, time.Since(start), err)
	if err != nil {
		logging.WithFields(ctx, "table", def.Info.Key).Error("source load failed", "error", err)
		return nil, fmt.Errorf("table %s: %w", def.Info.Key, err)
	}
	return records, nil
}

func (sess *session) touch(now time.Time) {
	sess.lastUsed.Store(now.UnixNano())
}

// snapshot copies the session's view. Caller holds sess.mu.
func (sess *session) snapshot() *SessionView {
	all := sess.tbl.State().Selection.IDs()
	selected := make([]string, 0, len(all))
	for _, id := range all {
		if sess.tbl.Contains(id) {
			selected = append(selected, id)
		}
	}

	return &SessionView{
		ID:       sess.id,
		Table:    sess.def.Info,
		Columns:  sess.tbl.Columns().Specs(),
		KeyField: sess.tbl.KeyField(),
		View:     sess.tbl.View(),
		Selected: selected,
		LoadedAt: sess.loadedAt,
	}
}
