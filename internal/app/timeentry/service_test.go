package timeentry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/apperr"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/policy"
)

type fakeRepo struct {
	Repository
	entries map[uint64]*Entry
	synced  []uint64
}

func (f *fakeRepo) CreateEntry(e *Entry) error {
	e.ID = uint64(len(f.entries) + 1)
	f.entries[e.ID] = e
	return nil
}

func (f *fakeRepo) GetEntryByID(id uint64) (*Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, assert.AnError
	}
	return e, nil
}

func (f *fakeRepo) ListByUser(userID uint64, from, to string) ([]*Entry, error) {
	var out []*Entry
	for i := uint64(1); i <= uint64(len(f.entries)); i++ {
		e := f.entries[i]
		if e.UserID != userID {
			continue
		}
		if from != "" && e.Day < from {
			continue
		}
		if to != "" && e.Day > to {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepo) DeleteEntry(id uint64) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeRepo) SyncCardActualHours(cardID uint64) error {
	f.synced = append(f.synced, cardID)
	return nil
}

type fakeCardRepo struct {
	card.Repository
}

func (f *fakeCardRepo) GetCardByID(id uint64) (*card.Card, error) {
	return &card.Card{ID: id, BoardID: 1}, nil
}

type fakeBoardSvc struct {
	board.Service
	target policy.BoardTarget
}

func (f *fakeBoardSvc) Target(boardID uint64) (policy.BoardTarget, error) {
	return f.target, nil
}

func newTestService(repo *fakeRepo, target policy.BoardTarget) Service {
	return NewService(repo, &fakeCardRepo{}, &fakeBoardSvc{target: target}, zap.NewNop())
}

func member(userID uint64) policy.Identity {
	return policy.Identity{UserID: userID, Role: policy.RoleUser}
}

func TestLogTimeRejectsBadDay(t *testing.T) {
	repo := &fakeRepo{entries: map[uint64]*Entry{}}
	svc := newTestService(repo, policy.BoardTarget{BoardID: 1, MemberIDs: []uint64{7}})

	_, err := svc.LogTime(member(7), 5, CreateEntryRequest{Day: "01/02/2026", Hours: 2})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}

func TestLogTimeSyncsCardHours(t *testing.T) {
	repo := &fakeRepo{entries: map[uint64]*Entry{}}
	svc := newTestService(repo, policy.BoardTarget{BoardID: 1, MemberIDs: []uint64{7}})

	entry, err := svc.LogTime(member(7), 5, CreateEntryRequest{Day: "2026-08-28", Hours: 2.5})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), entry.UserID)
	assert.Equal(t, []uint64{5}, repo.synced)
}

func TestDeleteEntryForeignWithoutManageRights(t *testing.T) {
	repo := &fakeRepo{entries: map[uint64]*Entry{
		1: {ID: 1, CardID: 5, UserID: 7, Day: "2026-08-28", Hours: 1},
	}}
	svc := newTestService(repo, policy.BoardTarget{BoardID: 1, CreatorID: 7, MemberIDs: []uint64{7, 8}})

	err := svc.DeleteEntry(member(8), 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.Contains(t, repo.entries, uint64(1))
}

func TestListMineBucketsByDay(t *testing.T) {
	repo := &fakeRepo{entries: map[uint64]*Entry{
		1: {ID: 1, CardID: 5, UserID: 7, Day: "2026-08-27", Hours: 2},
		2: {ID: 2, CardID: 6, UserID: 7, Day: "2026-08-27", Hours: 1.5},
		3: {ID: 3, CardID: 5, UserID: 7, Day: "2026-08-28", Hours: 4},
		4: {ID: 4, CardID: 5, UserID: 9, Day: "2026-08-28", Hours: 8},
	}}
	svc := newTestService(repo, policy.BoardTarget{BoardID: 1})

	summary, err := svc.ListMine(member(7), "", "")
	require.NoError(t, err)
	assert.Len(t, summary.Entries, 3)
	require.Len(t, summary.Days, 2)
	assert.Equal(t, DayTotal{Day: "2026-08-27", Hours: 3.5}, summary.Days[0])
	assert.Equal(t, DayTotal{Day: "2026-08-28", Hours: 4}, summary.Days[1])
	assert.Equal(t, 7.5, summary.Total)
}

func TestListMineRejectsBadRange(t *testing.T) {
	repo := &fakeRepo{entries: map[uint64]*Entry{}}
	svc := newTestService(repo, policy.BoardTarget{BoardID: 1})

	_, err := svc.ListMine(member(7), "yesterday", "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))
}
