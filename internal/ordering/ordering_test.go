package ordering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name  string
		ids   []uint64
		id    uint64
		index int
		want  []uint64
	}{
		{"empty", nil, 1, 0, []uint64{1}},
		{"head", []uint64{2, 3}, 1, 0, []uint64{1, 2, 3}},
		{"middle", []uint64{1, 3}, 2, 1, []uint64{1, 2, 3}},
		{"tail", []uint64{1, 2}, 3, 2, []uint64{1, 2, 3}},
		{"past end clamps", []uint64{1, 2}, 3, 99, []uint64{1, 2, 3}},
		{"negative clamps", []uint64{2, 3}, 1, -5, []uint64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertAt(tt.ids, tt.id, tt.index))
		})
	}
}

func TestMoveTo(t *testing.T) {
	ids := []uint64{10, 20, 30, 40}

	assert.Equal(t, []uint64{20, 30, 10, 40}, MoveTo(ids, 10, 2))
	assert.Equal(t, []uint64{40, 10, 20, 30}, MoveTo(ids, 40, 0))
	assert.Equal(t, ids, MoveTo(ids, 99, 1), "unknown id is a no-op")
}

func TestRemoveFromClosesGap(t *testing.T) {
	ids := []uint64{1, 2, 3}
	got := RemoveFrom(ids, 2)
	assert.Equal(t, []uint64{1, 3}, got)

	positions := Positions(got)
	assert.Equal(t, 0, positions[1])
	assert.Equal(t, 1, positions[3])
}

// Positions must stay exactly 0..n-1 with no duplicates or gaps after any
// sequence of insert/move/remove operations.
func TestDensePositionsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var ids []uint64
	next := uint64(1)

	checkDense := func() {
		positions := Positions(ids)
		require.Len(t, positions, len(ids))
		seen := make(map[int]bool, len(ids))
		for _, p := range positions {
			require.GreaterOrEqual(t, p, 0)
			require.Less(t, p, len(ids))
			require.False(t, seen[p], "duplicate position %d", p)
			seen[p] = true
		}
	}

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(ids) == 0:
			ids = InsertAt(ids, next, rng.Intn(len(ids)+1))
			next++
		case op == 1:
			ids = MoveTo(ids, ids[rng.Intn(len(ids))], rng.Intn(len(ids)+1))
		default:
			ids = RemoveFrom(ids, ids[rng.Intn(len(ids))])
		}
		checkDense()
	}
}
