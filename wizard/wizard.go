// Package wizard tracks the two-page overtime submission form. Each browser
// session owns its own state; the record store is only touched on Submit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"overtime-audit/models"

	"github.com/google/uuid"
)

type State string

const (
	AwaitingPage1 State = "awaiting_page_1"
	AwaitingPage2 State = "awaiting_page_2"
	Submitting    State = "submitting"
)

var (
	ErrSessionNotFound   = errors.New("wizard session not found")
	ErrInvalidTransition = errors.New("invalid wizard transition")
)

// Page1 holds the shift details.
type Page1 struct {
	Date         string  `json:"date"`
	WeekStart    string  `json:"week_start"`
	WeekEnd      string  `json:"week_end"`
	EmployeeID   string  `json:"employee_id"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	RosterGroup  string  `json:"roster_group"`
	OvertimeType string  `json:"overtime_type"`
	Hours        float64 `json:"hours"`
	Depot        string  `json:"depot"`
}

// Page2 holds the review details.
type Page2 struct {
	Notes               string             `json:"notes"`
	ReviewedBy          string             `json:"reviewed_by"`
	AuditStatus         models.AuditStatus `json:"audit_status"`
	DiscrepancyComments string             `json:"discrepancy_comments"`
}

type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Page1     Page1     `json:"page1"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Inserter persists a completed submission.
type Inserter interface {
	Insert(ctx context.Context, entry models.OvertimeEntry) (uint, error)
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Inserter
	now      func() time.Time
}

func NewManager(store Inserter) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		now:      time.Now,
	}
}

// Start opens a new session on the first page.
func (m *Manager) Start() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{ID: uuid.NewString(), State: AwaitingPage1, UpdatedAt: m.now()}
	m.sessions[s.ID] = s
	return *s
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *s, nil
}

// Next records the first page and moves on to the second.
func (m *Manager) Next(id string, page Page1) (Session, error) {
	if err := page.validate(); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id, AwaitingPage1)
	if err != nil {
		return Session{}, err
	}
	s.Page1 = page
	s.State = AwaitingPage2
	s.UpdatedAt = m.now()
	return *s, nil
}

// Back returns to the first page, keeping what was entered there.
func (m *Manager) Back(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id, AwaitingPage2)
	if err != nil {
		return Session{}, err
	}
	s.State = AwaitingPage1
	s.UpdatedAt = m.now()
	return *s, nil
}

// Submit stores the completed entry and ends the session. The session is in
// Submitting while the insert runs and a second Submit on it is rejected.
// When the insert fails the session returns to the second page.
func (m *Manager) Submit(ctx context.Context, id string, page Page2) (uint, error) {
	m.mu.Lock()
	s, err := m.lookup(id, AwaitingPage2)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	s.State = Submitting
	entry := s.Page1.merge(page)
	m.mu.Unlock()

	entryID, err := m.store.Insert(ctx, entry)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		if s, ok := m.sessions[id]; ok && s.State == Submitting {
			s.State = AwaitingPage2
			s.UpdatedAt = m.now()
		}
		return 0, err
	}
	delete(m.sessions, id)
	return entryID, nil
}

// Cancel drops a session. Unknown ids are ignored.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *Manager) Prune(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) lookup(id string, want State) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.State != want {
		return nil, fmt.Errorf("%w: session is %s, expected %s", ErrInvalidTransition, s.State, want)
	}
	return s, nil
}

func (p Page1) validate() error {
	if p.Hours < 0 {
		return &models.ValidationError{Field: models.ColHours, Reason: fmt.Sprintf("must not be negative, got %v", p.Hours)}
	}
	return nil
}

func (p Page1) merge(page Page2) models.OvertimeEntry {
	return models.OvertimeEntry{
		Date:                p.Date,
		WeekStart:           p.WeekStart,
		WeekEnd:             p.WeekEnd,
		EmployeeID:          p.EmployeeID,
		Name:                p.Name,
		Department:          p.Department,
		RosterGroup:         p.RosterGroup,
		OvertimeType:        p.OvertimeType,
		Hours:               p.Hours,
		Depot:               p.Depot,
		Notes:               page.Notes,
		ReviewedBy:          page.ReviewedBy,
		AuditStatus:         page.AuditStatus,
		DiscrepancyComments: page.DiscrepancyComments,
	}
}
