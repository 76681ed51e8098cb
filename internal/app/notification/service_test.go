package notification

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/apperr"
	"taskboard/internal/policy"
)

type fakeRepo struct {
	Repository
	notifications map[uint64]*Notification
	nextID        uint64
	failForUser   uint64
	deletedCards  map[uint64]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notifications: map[uint64]*Notification{},
		deletedCards:  map[uint64]bool{},
	}
}

func (f *fakeRepo) Create(n *Notification) error {
	if f.failForUser != 0 && n.UserID == f.failForUser {
		return fmt.Errorf("connection reset")
	}
	f.nextID++
	n.ID = f.nextID
	stored := *n
	f.notifications[n.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(id uint64) (*Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, assert.AnError
	}
	clone := *n
	return &clone, nil
}

func (f *fakeRepo) MarkRead(id uint64) error {
	f.notifications[id].Read = true
	return nil
}

func (f *fakeRepo) CardExists(cardID uint64) (bool, error) {
	return !f.deletedCards[cardID], nil
}

func (f *fakeRepo) BoardExists(boardID uint64) (bool, error) {
	return true, nil
}

type fakeResolver struct {
	members []uint64
}

func (f *fakeResolver) ResolveMembers(boardID uint64) ([]uint64, error) {
	return f.members, nil
}

func TestNotifyBoardMembersFansOutToCurrentMembers(t *testing.T) {
	repo := newFakeRepo()
	resolver := &fakeResolver{members: []uint64{1, 2, 3}}
	svc := NewService(repo, resolver, nil, nil, zap.NewNop())

	err := svc.NotifyBoardMembers(10, 1, Draft{Type: TypeCardDueSoon, Title: "due soon"})
	require.NoError(t, err)

	// The acting user is excluded; the other two each get one notification.
	recipients := map[uint64]int{}
	for _, n := range repo.notifications {
		recipients[n.UserID]++
	}
	assert.Equal(t, map[uint64]int{2: 1, 3: 1}, recipients)

	// Membership is read at dispatch time, so a grown member set receives the
	// next fan-out in full.
	resolver.members = []uint64{1, 2, 3, 4}
	require.NoError(t, svc.NotifyBoardMembers(10, 1, Draft{Type: TypeCardDueSoon, Title: "again"}))
	count := 0
	for _, n := range repo.notifications {
		if n.UserID == 4 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNotifyBoardMembersWithoutExclusionDeliversToEveryMember(t *testing.T) {
	repo := newFakeRepo()
	resolver := &fakeResolver{members: []uint64{1, 2, 3}}
	svc := NewService(repo, resolver, nil, nil, zap.NewNop())

	// Zero means no exclusion: each current member gets exactly one copy,
	// the triggering user included.
	err := svc.NotifyBoardMembers(10, 0, Draft{Type: TypeCardDueSoon, Title: "due soon"})
	require.NoError(t, err)

	recipients := map[uint64]int{}
	for _, n := range repo.notifications {
		recipients[n.UserID]++
	}
	assert.Equal(t, map[uint64]int{1: 1, 2: 1, 3: 1}, recipients)
}

func TestNotifyBoardMembersReportsPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failForUser = 2
	resolver := &fakeResolver{members: []uint64{2, 3}}
	svc := NewService(repo, resolver, nil, nil, zap.NewNop())

	err := svc.NotifyBoardMembers(10, 0, Draft{Type: TypeCardAssigned, Title: "assigned"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPartialFailure))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Failures, 1)

	// The healthy recipient was still delivered to.
	delivered := 0
	for _, n := range repo.notifications {
		if n.UserID == 3 {
			delivered++
		}
	}
	assert.Equal(t, 1, delivered)
}

func TestNotifyUserDropsDeletedCardReference(t *testing.T) {
	repo := newFakeRepo()
	repo.deletedCards[77] = true
	svc := NewService(repo, &fakeResolver{}, nil, nil, zap.NewNop())

	cardID := uint64(77)
	n, err := svc.NotifyUser(5, Draft{Type: TypeCardDueSoon, Title: "gone", CardID: &cardID})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, repo.notifications)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeResolver{}, nil, nil, zap.NewNop())

	n, err := svc.NotifyUser(5, Draft{Type: TypeCommentAdded, Title: "new comment"})
	require.NoError(t, err)

	caller := policy.Identity{UserID: 5, Role: policy.RoleUser}
	require.NoError(t, svc.MarkRead(caller, n.ID))
	assert.True(t, repo.notifications[n.ID].Read)

	// Second mark is a no-op, not an error.
	require.NoError(t, svc.MarkRead(caller, n.ID))
	assert.True(t, repo.notifications[n.ID].Read)
}

func TestMarkReadRejectsForeignNotification(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeResolver{}, nil, nil, zap.NewNop())

	n, err := svc.NotifyUser(5, Draft{Type: TypeCommentAdded, Title: "new comment"})
	require.NoError(t, err)

	err = svc.MarkRead(policy.Identity{UserID: 6, Role: policy.RoleUser}, n.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.False(t, repo.notifications[n.ID].Read)
}
