// Package policy is the single authorization decision point invoked before
// every mutating entity operation. Handlers supply the caller identity from
// the auth middleware; services supply the board target they are about to
// touch.
package policy

import (
	"taskboard/internal/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Identity struct {
	UserID uint64
	Role   string
}

type Action string

const (
	ActionView   Action = "view"   // read board contents
	ActionEdit   Action = "edit"   // mutate columns/cards/children
	ActionManage Action = "manage" // membership, archive, delete board
)

// BoardTarget carries the ownership facts of the board sub-tree an action
// applies to.
type BoardTarget struct {
	BoardID   uint64
	CreatorID uint64
	MemberIDs []uint64
}

func (t BoardTarget) isMember(userID uint64) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Authorize returns nil when the identity may perform action on target, or an
// Unauthorized error otherwise. Admins may do anything; the board creator may
// manage; members may view and edit.
func Authorize(id Identity, action Action, target BoardTarget) error {
	if id.Role == RoleAdmin {
		return nil
	}
	if id.UserID == target.CreatorID {
		return nil
	}
	switch action {
	case ActionView, ActionEdit:
		if target.isMember(id.UserID) {
			return nil
		}
		return apperr.Unauthorized("user %d is not a member of board %d", id.UserID, target.BoardID)
	case ActionManage:
		return apperr.Unauthorized("user %d may not manage board %d", id.UserID, target.BoardID)
	default:
		return apperr.Unauthorized("unknown action %q on board %d", action, target.BoardID)
	}
}
