package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"overtime-audit/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInserter struct {
	entries []models.OvertimeEntry
	err     error
}

func (f *fakeInserter) Insert(_ context.Context, entry models.OvertimeEntry) (uint, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, entry)
	return uint(len(f.entries)), nil
}

func page1() Page1 {
	return Page1{
		Date:         "2024-06-03",
		WeekStart:    "2024-06-03",
		WeekEnd:      "2024-06-09",
		EmployeeID:   "E7",
		Name:         "Priya Nair",
		Department:   "Ops",
		RosterGroup:  "C",
		OvertimeType: models.OvertimeTypePlanned,
		Hours:        3.5,
		Depot:        "East",
	}
}

func TestWizard_HappyPath(t *testing.T) {
	store := &fakeInserter{}
	m := NewManager(store)

	s := m.Start()
	assert.Equal(t, AwaitingPage1, s.State)
	assert.NotEmpty(t, s.ID)

	s, err := m.Next(s.ID, page1())
	require.NoError(t, err)
	assert.Equal(t, AwaitingPage2, s.State)
	assert.Empty(t, store.entries, "nothing is stored before submit")

	id, err := m.Submit(context.Background(), s.ID, Page2{
		Notes:       "signal failure",
		ReviewedBy:  "Omar",
		AuditStatus: models.AuditStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, "Ops", got.Department)
	assert.Equal(t, 3.5, got.Hours)
	assert.Equal(t, "signal failure", got.Notes)
	assert.Equal(t, models.AuditStatusPending, got.AuditStatus)

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWizard_BackKeepsPage1(t *testing.T) {
	m := NewManager(&fakeInserter{})
	s := m.Start()

	_, err := m.Next(s.ID, page1())
	require.NoError(t, err)

	s, err = m.Back(s.ID)
	require.NoError(t, err)
	assert.Equal(t, AwaitingPage1, s.State)
	assert.Equal(t, page1(), s.Page1)

	edited := page1()
	edited.Hours = 4
	s, err = m.Next(s.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.Page1.Hours)
}

func TestWizard_InvalidTransitions(t *testing.T) {
	m := NewManager(&fakeInserter{})
	s := m.Start()

	_, err := m.Back(s.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Submit(context.Background(), s.ID, Page2{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Next(s.ID, page1())
	require.NoError(t, err)
	_, err = m.Next(s.ID, page1())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.Next("missing", page1())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWizard_NegativeHoursRejected(t *testing.T) {
	m := NewManager(&fakeInserter{})
	s := m.Start()

	p := page1()
	p.Hours = -1
	_, err := m.Next(s.ID, p)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))

	s, err = m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, AwaitingPage1, s.State)
}

func TestWizard_FailedSubmitStaysOnPage2(t *testing.T) {
	store := &fakeInserter{err: &models.StorageError{Op: "insert", Err: errors.New("database is locked")}}
	m := NewManager(store)
	s := m.Start()
	_, err := m.Next(s.ID, page1())
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), s.ID, Page2{})
	var serr *models.StorageError
	require.True(t, errors.As(err, &serr))

	s, err = m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, AwaitingPage2, s.State)
}

func TestWizard_SessionsAreIndependent(t *testing.T) {
	m := NewManager(&fakeInserter{})
	a := m.Start()
	b := m.Start()
	assert.NotEqual(t, a.ID, b.ID)

	_, err := m.Next(a.ID, page1())
	require.NoError(t, err)

	got, err := m.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, AwaitingPage1, got.State)
}

func TestWizard_CancelAndPrune(t *testing.T) {
	m := NewManager(&fakeInserter{})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale := m.Start()
	now = now.Add(2 * time.Hour)
	fresh := m.Start()
	cancelled := m.Start()

	m.Cancel(cancelled.ID)
	m.Cancel("unknown")
	_, err := m.Get(cancelled.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, m.Prune(time.Hour))
	_, err = m.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}

type blockingInserter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingInserter) Insert(ctx context.Context, _ models.OvertimeEntry) (uint, error) {
	close(b.started)
	select {
	case <-b.release:
		return 1, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestWizard_SubmitDoesNotBlockOtherSessions(t *testing.T) {
	store := &blockingInserter{started: make(chan struct{}), release: make(chan struct{})}
	m := NewManager(store)
	s := m.Start()
	_, err := m.Next(s.ID, page1())
	require.NoError(t, err)

	type result struct {
		id  uint
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := m.Submit(context.Background(), s.ID, Page2{})
		done <- result{id, err}
	}()
	<-store.started

	other := m.Start()
	_, err = m.Next(other.ID, page1())
	require.NoError(t, err)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, Submitting, got.State)

	_, err = m.Submit(context.Background(), s.ID, Page2{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	close(store.release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, uint(1), res.id)

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
