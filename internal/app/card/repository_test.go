package card_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/internal/app/card"
	"taskboard/internal/app/label"
	"taskboard/internal/db"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(t.TempDir()+"/card.db"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, zap.NewNop()))
	return conn
}

func strPtr(s string) *string { return &s }

func TestMaterializeOccurrenceIsIdempotentPerDueDate(t *testing.T) {
	conn := openTestDB(t)
	repo := card.NewRepository(conn)

	lbl := &label.Label{Name: "chore", Color: "#95a5a6"}
	require.NoError(t, conn.Create(lbl).Error)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tpl := &card.Card{
		BoardID:            1,
		ColumnID:           1,
		Title:              "standup notes",
		Priority:           card.PriorityMedium,
		CreatorID:          1,
		RecurrenceType:     strPtr("daily"),
		RecurrenceInterval: 1,
		RecurrenceStart:    &start,
	}
	require.NoError(t, repo.CreateCard(tpl, 0))
	require.NoError(t, repo.AttachLabel(tpl.ID, lbl.ID))
	require.NoError(t, conn.Create(&card.Subtask{CardID: tpl.ID, Title: "collect updates", Done: true}).Error)

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	first, err := repo.MaterializeOccurrence(tpl.ID, due)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, first.ParentRecurrenceID)
	assert.Equal(t, tpl.ID, *first.ParentRecurrenceID)

	// A second pass for the same due date matches zero rows and creates
	// nothing.
	second, err := repo.MaterializeOccurrence(tpl.ID, due)
	require.NoError(t, err)
	assert.Nil(t, second)

	var count int64
	require.NoError(t, conn.Model(&card.Card{}).Where("parent_recurrence_id = ?", tpl.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	reloaded, err := repo.GetCardByID(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.RecurrenceCreatedCount)
	require.NotNil(t, reloaded.RecurrenceLastCreated)
	assert.True(t, reloaded.RecurrenceLastCreated.Equal(due))

	// The clone carries labels and reset subtasks, none of the template's
	// recurrence.
	clone, err := repo.GetCardByID(first.ID)
	require.NoError(t, err)
	assert.Nil(t, clone.RecurrenceType)
	require.Len(t, clone.Labels, 1)
	assert.Equal(t, "chore", clone.Labels[0].Name)
	require.Len(t, clone.Subtasks, 1)
	assert.False(t, clone.Subtasks[0].Done)
}

func TestMaterializeOccurrenceStopsAtMaxCount(t *testing.T) {
	conn := openTestDB(t)
	repo := card.NewRepository(conn)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	max := 1
	tpl := &card.Card{
		BoardID:            1,
		ColumnID:           1,
		Title:              "weekly report",
		Priority:           card.PriorityMedium,
		CreatorID:          1,
		RecurrenceType:     strPtr("weekly"),
		RecurrenceInterval: 1,
		RecurrenceStart:    &start,
		RecurrenceMaxCount: &max,
	}
	require.NoError(t, repo.CreateCard(tpl, 0))

	first, err := repo.MaterializeOccurrence(tpl.ID, time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.MaterializeOccurrence(tpl.ID, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestMoveCardKeepsBothColumnsDense(t *testing.T) {
	conn := openTestDB(t)
	repo := card.NewRepository(conn)

	var source []*card.Card
	for i := 0; i < 3; i++ {
		c := &card.Card{BoardID: 1, ColumnID: 1, Title: "s", Priority: card.PriorityLow, CreatorID: 1}
		require.NoError(t, repo.CreateCard(c, i))
		source = append(source, c)
	}
	for i := 0; i < 2; i++ {
		c := &card.Card{BoardID: 1, ColumnID: 2, Title: "t", Priority: card.PriorityLow, CreatorID: 1}
		require.NoError(t, repo.CreateCard(c, i))
	}

	require.NoError(t, repo.MoveCard(source[1].ID, 2, 1))

	left, err := repo.ListByColumn(1)
	require.NoError(t, err)
	require.Len(t, left, 2)
	for i, c := range left {
		assert.Equal(t, i, c.Position)
	}

	right, err := repo.ListByColumn(2)
	require.NoError(t, err)
	require.Len(t, right, 3)
	for i, c := range right {
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, source[1].ID, right[1].ID)
}
