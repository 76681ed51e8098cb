package board

import (
	"gorm.io/gorm"
)

type Repository interface {
	CreateBoard(board *Board) error
	GetBoardByID(id uint64) (*Board, error)
	ListBoardsForUser(userID uint64) ([]*Board, error)
	UpdateBoard(board *Board) error
	DeleteBoard(id uint64) error
	AddMember(boardID, userID uint64) error
	RemoveMember(boardID, userID uint64) error
	MemberIDs(boardID uint64) ([]uint64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBoard(board *Board) error {
	return r.db.Create(board).Error
}

func (r *repository) GetBoardByID(id uint64) (*Board, error) {
	var board Board
	err := r.db.
		Preload("Members").
		Where("id = ?", id).
		First(&board).Error
	return &board, err
}

func (r *repository) ListBoardsForUser(userID uint64) ([]*Board, error) {
	var boards []*Board
	err := r.db.
		Preload("Members").
		Where("creator_id = ? OR id IN (SELECT board_id FROM board_members WHERE user_id = ?)", userID, userID).
		Order("created_at ASC").
		Find(&boards).Error
	return boards, err
}

func (r *repository) UpdateBoard(board *Board) error {
	return r.db.Save(board).Error
}

// DeleteBoard removes the board and everything it owns: columns, cards and
// all card-owned children. Shared users and label presets are only detached
// (join rows removed); notifications referencing the board are left to
// dangle.
func (r *repository) DeleteBoard(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		cardSub := "SELECT id FROM cards WHERE board_id = ?"

		for _, stmt := range []string{
			"DELETE FROM card_subtasks WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_comments WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_attachments WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_activity WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM time_entries WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_labels WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_members WHERE card_id IN (" + cardSub + ")",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		for _, stmt := range []string{
			"DELETE FROM automation_executions WHERE rule_id IN (SELECT id FROM automation_rules WHERE board_id = ?)",
			"DELETE FROM automation_rules WHERE board_id = ?",
			"DELETE FROM planning_features WHERE board_id = ?",
			"DELETE FROM cards WHERE board_id = ?",
			"DELETE FROM board_columns WHERE board_id = ?",
			"DELETE FROM board_members WHERE board_id = ?",
			"DELETE FROM boards WHERE id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) AddMember(boardID, userID uint64) error {
	return r.db.Exec(`
        INSERT INTO board_members (board_id, user_id)
        VALUES (?, ?)
        ON CONFLICT DO NOTHING
    `, boardID, userID).Error
}

func (r *repository) RemoveMember(boardID, userID uint64) error {
	return r.db.Exec(
		"DELETE FROM board_members WHERE board_id = ? AND user_id = ?",
		boardID, userID,
	).Error
}

// MemberIDs resolves the current member list. Callers that fan out to
// members (notifications) must call this at dispatch time, not earlier.
func (r *repository) MemberIDs(boardID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.
		Raw("SELECT user_id FROM board_members WHERE board_id = ?", boardID).
		Scan(&ids).Error
	return ids, err
}
