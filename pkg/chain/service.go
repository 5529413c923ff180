package chain

import (
	"context"
	stderrors "errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/observability"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

// Service applies chain operations on top of a Store. Mutations are
// serialized so read-modify-write cycles never lose updates within one
// process.
type Service struct {
	store   Store
	backend string
	logger  *log.Logger
	now     func() time.Time

	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for mutation events.
func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for timestamps and stats.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service backed by store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		backend: backendName(store),
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() Store { return s.store }

// CreateParams holds the fields of a new chain.
type CreateParams struct {
	Name        string
	Description string
	Goal        string
	Color       string
	StartDate   time.Time // zero means today
}

// Create validates and stores a new chain.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Chain, error) {
	start := p.StartDate
	if start.IsZero() {
		start = s.now()
	}
	c := New(p.Name, p.Description, p.Goal, start)
	if p.Color != "" {
		c.Color = p.Color
	}
	c.CreatedAt = s.now().UTC()
	c.UpdatedAt = c.CreatedAt

	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.put(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("created chain", "id", c.ID, "name", c.Name)
	return c, nil
}

// Get returns a chain by ID.
func (s *Service) Get(ctx context.Context, id string) (*Chain, error) {
	start := time.Now()
	c, err := s.store.Get(ctx, id)
	s.observe(ctx, "get", start, err)
	if err != nil {
		return nil, s.wrap(err, id)
	}
	return c, nil
}

// List returns all chains ordered by creation time, then name.
func (s *Service) List(ctx context.Context) ([]*Chain, error) {
	start := time.Now()
	chains, err := s.store.List(ctx)
	s.observe(ctx, "list", start, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list chains")
	}
	sort.SliceStable(chains, func(i, j int) bool {
		if !chains[i].CreatedAt.Equal(chains[j].CreatedAt) {
			return chains[i].CreatedAt.Before(chains[j].CreatedAt)
		}
		return chains[i].Name < chains[j].Name
	})
	return chains, nil
}

// Update holds optional field changes. Nil fields are left unchanged.
type Update struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Goal        *string    `json:"goal,omitempty"`
	Color       *string    `json:"color,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	// ClearEndDate removes the end date, making the chain open-ended.
	ClearEndDate bool `json:"clear_end_date,omitempty"`
}

func (u Update) apply(c *Chain) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Goal != nil {
		c.Goal = *u.Goal
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	if u.StartDate != nil {
		c.StartDate = Midnight(*u.StartDate)
	}
	if u.EndDate != nil {
		end := Midnight(*u.EndDate)
		c.EndDate = &end
	}
	if u.ClearEndDate {
		c.EndDate = nil
	}
}

// Update applies u to the chain with the given ID.
func (s *Service) Update(ctx context.Context, id string, u Update) (*Chain, error) {
	return s.mutate(ctx, id, "update", func(c *Chain) error {
		u.apply(c)
		return c.Validate()
	})
}

// Delete removes a chain.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.store.Delete(ctx, id)
	s.observe(ctx, "delete", start, err)
	if err != nil {
		return s.wrap(err, id)
	}
	s.logger.Info("deleted chain", "id", id)
	return nil
}

// ToggleDay flips the completion of date and returns the new state.
func (s *Service) ToggleDay(ctx context.Context, id string, date time.Time) (bool, error) {
	var done bool
	_, err := s.mutate(ctx, id, "toggle", func(c *Chain) error {
		done = c.Toggle(date)
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Debug("toggled day", "id", id, "day", DayKey(date), "completed", done)
	return done, nil
}

// SetDay marks date as completed or not.
func (s *Service) SetDay(ctx context.Context, id string, date time.Time, completed bool) error {
	_, err := s.mutate(ctx, id, "set_day", func(c *Chain) error {
		c.SetDay(date, completed)
		return nil
	})
	return err
}

// DayStatus reports whether date is completed.
func (s *Service) DayStatus(ctx context.Context, id string, date time.Time) (bool, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return c.IsCompleted(date), nil
}

// MonthData returns the ordered day list for a month of a chain.
func (s *Service) MonthData(ctx context.Context, id string, year int, month time.Month) ([]voronoi.Day, error) {
	if err := errors.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.MonthDays(year, month), nil
}

// Stats returns progress statistics for a chain.
func (s *Service) Stats(ctx context.Context, id string) (Stats, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	return c.Stats(s.now()), nil
}

// Import stores chains as-is, replacing chains with the same ID. Every
// chain is validated before anything is written.
func (s *Service) Import(ctx context.Context, chains []*Chain) (int, error) {
	for _, c := range chains {
		if c.ID == "" {
			return 0, errors.New(errors.ErrCodeInvalidInput, "chain %q has no id", c.Name)
		}
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chains {
		if c.Days == nil {
			c.Days = map[string]bool{}
		}
		if err := s.put(ctx, c); err != nil {
			return i, err
		}
	}
	s.logger.Info("imported chains", "count", len(chains))
	return len(chains), nil
}

func (s *Service) mutate(ctx context.Context, id, op string, fn func(*Chain) error) (*Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.put(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug("updated chain", "id", id, "op", op)
	return c, nil
}

func (s *Service) put(ctx context.Context, c *Chain) error {
	start := time.Now()
	err := s.store.Put(ctx, c)
	s.observe(ctx, "put", start, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save chain %s", c.ID)
	}
	return nil
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	if stderrors.Is(err, ErrNotFound) {
		err = nil
	}
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *Service) wrap(err error, id string) error {
	if stderrors.Is(err, ErrNotFound) {
		return errors.Wrap(errors.ErrCodeChainNotFound, err, "chain %q not found", id)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "load chain %s", id)
}
