package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/apperr"
)

func TestAuthorize(t *testing.T) {
	target := BoardTarget{BoardID: 7, CreatorID: 1, MemberIDs: []uint64{2, 3}}

	tests := []struct {
		name    string
		id      Identity
		action  Action
		allowed bool
	}{
		{"admin may manage", Identity{UserID: 99, Role: RoleAdmin}, ActionManage, true},
		{"creator may manage", Identity{UserID: 1, Role: RoleUser}, ActionManage, true},
		{"member may edit", Identity{UserID: 2, Role: RoleUser}, ActionEdit, true},
		{"member may view", Identity{UserID: 3, Role: RoleUser}, ActionView, true},
		{"member may not manage", Identity{UserID: 2, Role: RoleUser}, ActionManage, false},
		{"outsider may not view", Identity{UserID: 50, Role: RoleUser}, ActionView, false},
		{"outsider may not edit", Identity{UserID: 50, Role: RoleUser}, ActionEdit, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.id, tt.action, target)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
			}
		})
	}
}
