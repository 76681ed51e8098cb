package board

import (
	"time"

	"taskboard/internal/app/user"
)

type Board struct {
	ID          uint64       `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Description *string      `json:"description,omitempty"`
	Background  string       `json:"background"`
	IsArchived  bool         `json:"is_archived" gorm:"not null;default:false"`
	IsStarred   bool         `json:"is_starred" gorm:"not null;default:false"`
	CreatorID   uint64       `json:"creator_id" gorm:"not null;index"`
	Members     []*user.User `json:"members,omitempty" gorm:"many2many:board_members"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateBoardRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=120"`
	Description *string `json:"description,omitempty"`
	Background  string  `json:"background"`
}

type UpdateBoardRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Background  *string `json:"background,omitempty"`
	IsArchived  *bool   `json:"is_archived,omitempty"`
	IsStarred   *bool   `json:"is_starred,omitempty"`
}

type MemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

type BoardListResponse struct {
	Boards []*Board `json:"boards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
