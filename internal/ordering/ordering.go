// Package ordering maintains dense 0-based position sequences for columns
// within a board and cards within a column. Positions are recomputed with a
// full deterministic renumber on every structural change so clients never
// observe duplicate or gapped values.
package ordering

// InsertAt returns the ordered id sequence with id placed at index. An index
// past the end appends; a negative index prepends.
func InsertAt(ids []uint64, id uint64, index int) []uint64 {
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	out := make([]uint64, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}

// MoveTo returns the sequence with id relocated to newIndex. If id is not
// present the sequence is returned unchanged.
func MoveTo(ids []uint64, id uint64, newIndex int) []uint64 {
	cur := indexOf(ids, id)
	if cur < 0 {
		return ids
	}
	without := RemoveFrom(ids, id)
	return InsertAt(without, id, newIndex)
}

// RemoveFrom returns the sequence without id, closing the gap.
func RemoveFrom(ids []uint64, id uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Positions maps each id to its dense position, which is simply its index in
// the renumbered sequence.
func Positions(ids []uint64) map[uint64]int {
	positions := make(map[uint64]int, len(ids))
	for i, id := range ids {
		positions[id] = i
	}
	return positions
}

func indexOf(ids []uint64, id uint64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
