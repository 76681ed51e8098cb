package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/column"
	"taskboard/internal/app/label"
	"taskboard/internal/app/timeentry"
	"taskboard/internal/app/user"
	"taskboard/internal/db"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(t.TempDir()+"/board.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, zap.NewNop()))
	return conn
}

func TestDeleteBoardCascadesButKeepsSharedEntities(t *testing.T) {
	conn := openTestDB(t)
	repo := board.NewRepository(conn)

	alice := &user.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := &user.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(alice).Error)
	require.NoError(t, conn.Create(bob).Error)

	b := &board.Board{Title: "roadmap", CreatorID: alice.ID}
	require.NoError(t, repo.CreateBoard(b))
	require.NoError(t, repo.AddMember(b.ID, bob.ID))

	col := &column.Column{BoardID: b.ID, Title: "todo", IsDefault: true}
	require.NoError(t, conn.Create(col).Error)

	lbl := &label.Label{Name: "bug", Color: "#e74c3c"}
	require.NoError(t, conn.Create(lbl).Error)

	c := &card.Card{BoardID: b.ID, ColumnID: col.ID, Title: "fix login", Priority: card.PriorityMedium, CreatorID: alice.ID}
	require.NoError(t, conn.Create(c).Error)
	require.NoError(t, conn.Exec("INSERT INTO card_labels (card_id, label_id) VALUES (?, ?)", c.ID, lbl.ID).Error)
	require.NoError(t, conn.Exec("INSERT INTO card_members (card_id, user_id) VALUES (?, ?)", c.ID, bob.ID).Error)
	require.NoError(t, conn.Create(&card.Subtask{CardID: c.ID, Title: "reproduce"}).Error)
	require.NoError(t, conn.Create(&timeentry.Entry{CardID: c.ID, UserID: bob.ID, Day: "2026-08-28", Hours: 2}).Error)

	require.NoError(t, repo.DeleteBoard(b.ID))

	// The board sub-tree is gone.
	var count int64
	require.NoError(t, conn.Model(&board.Board{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&column.Column{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&card.Card{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&card.Subtask{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&timeentry.Entry{}).Count(&count).Error)
	assert.Zero(t, count)

	// Join rows are detached.
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM board_members").Scan(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM card_labels").Scan(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Raw("SELECT COUNT(*) FROM card_members").Scan(&count).Error)
	assert.Zero(t, count)

	// Shared users and label presets survive the cascade.
	require.NoError(t, conn.Model(&user.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	require.NoError(t, conn.Model(&label.Label{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMemberIDsReflectCurrentMembership(t *testing.T) {
	conn := openTestDB(t)
	repo := board.NewRepository(conn)

	b := &board.Board{Title: "ops", CreatorID: 1}
	require.NoError(t, repo.CreateBoard(b))
	require.NoError(t, repo.AddMember(b.ID, 2))
	require.NoError(t, repo.AddMember(b.ID, 3))
	// Re-adding is a no-op, not a duplicate row.
	require.NoError(t, repo.AddMember(b.ID, 2))

	ids, err := repo.MemberIDs(b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)

	require.NoError(t, repo.RemoveMember(b.ID, 2))
	ids, err = repo.MemberIDs(b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{3}, ids)
}
