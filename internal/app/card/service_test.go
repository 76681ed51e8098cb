package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/apperr"
	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/column"
	"taskboard/internal/policy"
)

type fakeRepo struct {
	Repository
	cards        map[uint64]*Card
	updated      *Card
	attachedUser uint64
}

func (f *fakeRepo) GetCardByID(id uint64) (*Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, assert.AnError
	}
	copy := *c
	return &copy, nil
}

func (f *fakeRepo) CreateCard(card *Card, index int) error {
	card.ID = uint64(len(f.cards) + 1)
	f.cards[card.ID] = card
	return nil
}

func (f *fakeRepo) UpdateCard(card *Card) error {
	f.updated = card
	f.cards[card.ID] = card
	return nil
}

func (f *fakeRepo) AttachMember(cardID, userID uint64) error {
	f.attachedUser = userID
	return nil
}

type fakeBoardSvc struct {
	board.Service
	target policy.BoardTarget
}

func (f *fakeBoardSvc) Target(boardID uint64) (policy.BoardTarget, error) {
	return f.target, nil
}

type fakeColumnSvc struct {
	column.Service
	cols map[uint64]*column.Column
}

func (f *fakeColumnSvc) GetColumn(columnID uint64) (*column.Column, error) {
	col, ok := f.cols[columnID]
	if !ok {
		return nil, apperr.NotFound("column %d does not exist", columnID)
	}
	return col, nil
}

type fakeActivity struct{ entries []string }

func (f *fakeActivity) Append(cardID, userID uint64, entryType, detail string) (*activity.Entry, int, error) {
	f.entries = append(f.entries, entryType)
	return &activity.Entry{CardID: cardID, Type: entryType, Detail: detail}, len(f.entries) - 1, nil
}

func (f *fakeActivity) Feed(cardID uint64) ([]*activity.Entry, error) { return nil, nil }

func newTestService(repo *fakeRepo, target policy.BoardTarget, cols map[uint64]*column.Column) (Service, *fakeActivity) {
	acts := &fakeActivity{}
	svc := NewService(
		repo,
		&fakeBoardSvc{target: target},
		&fakeColumnSvc{cols: cols},
		nil,
		acts,
		nil,
		nil,
		nil,
		zap.NewNop(),
	)
	return svc, acts
}

func member(userID uint64) policy.Identity {
	return policy.Identity{UserID: userID, Role: policy.RoleUser}
}

func TestCreateCardRejectsUnknownPriority(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{}}
	svc, _ := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, map[uint64]*column.Column{
		3: {ID: 3, BoardID: 1},
	})

	_, err := svc.CreateCard(member(7), 3, CreateCardRequest{Title: "x", Priority: "urgent"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}

func TestCreateCardRejectsDueBeforeStart(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{}}
	svc, _ := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, map[uint64]*column.Column{
		3: {ID: 3, BoardID: 1},
	})

	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, -1)
	_, err := svc.CreateCard(member(7), 3, CreateCardRequest{Title: "x", StartDate: &start, DueDate: &due})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}

func TestCreateCardRecordsActivityAtFeedStart(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{}}
	svc, acts := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, map[uint64]*column.Column{
		3: {ID: 3, BoardID: 1},
	})

	card, err := svc.CreateCard(member(7), 3, CreateCardRequest{Title: "write report"})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, card.Priority)
	require.Len(t, acts.entries, 1)
	assert.Equal(t, activity.TypeCreated, acts.entries[0])
}

func TestUpdateCardInvariantFailureLeavesNoTrace(t *testing.T) {
	start := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x", Priority: PriorityLow, StartDate: &start},
	}}
	svc, acts := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, nil)

	high := PriorityHigh
	due := start.AddDate(0, 0, -1)
	_, err := svc.UpdateCard(member(7), 10, UpdateCardRequest{Priority: &high, DueDate: &due})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
	// The rejected update must not have persisted the card or grown the feed.
	assert.Nil(t, repo.updated)
	assert.Empty(t, acts.entries)
	assert.Equal(t, PriorityLow, repo.cards[10].Priority)
}

func TestUpdateCardRecordsOneEntryPerCall(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x", Priority: PriorityLow},
	}}
	svc, acts := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, nil)

	high := PriorityHigh
	_, err := svc.UpdateCard(member(7), 10, UpdateCardRequest{Priority: &high})
	require.NoError(t, err)
	require.Equal(t, []string{activity.TypePriority}, acts.entries)

	due := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.UpdateCard(member(7), 10, UpdateCardRequest{DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, []string{activity.TypePriority, activity.TypeDueDate}, acts.entries)

	title := "y"
	low := PriorityLow
	_, err = svc.UpdateCard(member(7), 10, UpdateCardRequest{Title: &title, Priority: &low})
	require.NoError(t, err)
	// A multi-field update collapses to a single generic entry.
	require.Equal(t, []string{activity.TypePriority, activity.TypeDueDate, activity.TypeUpdated}, acts.entries)
}

func TestAddMemberRequiresBoardMembership(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x"},
	}}
	target := policy.BoardTarget{BoardID: 1, CreatorID: 7, MemberIDs: []uint64{7, 8}}
	svc, _ := newTestService(repo, target, nil)

	err := svc.AddMember(member(7), 10, 99)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
	assert.Zero(t, repo.attachedUser)

	require.NoError(t, svc.AddMember(member(7), 10, 8))
	assert.Equal(t, uint64(8), repo.attachedUser)
}

func TestMoveCardRejectsCrossBoardColumn(t *testing.T) {
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x"},
	}}
	svc, _ := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, map[uint64]*column.Column{
		5: {ID: 5, BoardID: 2},
	})

	_, err := svc.MoveCard(member(7), 10, MoveCardRequest{ColumnID: 5, Index: 0})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}

func TestCompleteCardIsIdempotent(t *testing.T) {
	done := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x", CompletedAt: &done},
	}}
	svc, acts := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, nil)

	card, err := svc.CompleteCard(member(7), 10)
	require.NoError(t, err)
	assert.Equal(t, done, *card.CompletedAt)
	assert.Nil(t, repo.updated)
	assert.Empty(t, acts.entries)
}

func TestSetRecurrenceRejectsGeneratedOccurrence(t *testing.T) {
	parent := uint64(5)
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x", ParentRecurrenceID: &parent},
	}}
	svc, _ := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, nil)

	_, err := svc.SetRecurrence(member(7), 10, RecurrenceRequest{
		Type: "daily", Interval: 1, Start: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}

func TestSetRecurrenceResetsCounters(t *testing.T) {
	last := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{cards: map[uint64]*Card{
		10: {ID: 10, BoardID: 1, ColumnID: 3, Title: "x", RecurrenceCreatedCount: 4, RecurrenceLastCreated: &last},
	}}
	svc, _ := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7}, nil)

	card, err := svc.SetRecurrence(member(7), 10, RecurrenceRequest{
		Type:       "weekly",
		Interval:   2,
		DaysOfWeek: []time.Weekday{time.Monday, time.Friday},
		Start:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, card.RecurrenceCreatedCount)
	assert.Nil(t, card.RecurrenceLastCreated)
	assert.Equal(t, "1,5", card.RecurrenceDaysOfWeek)
	require.NotNil(t, card.Pattern())
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, card.Pattern().DaysOfWeek)
}
