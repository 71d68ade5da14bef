package rotation

import "github.com/mcoot/openplay-go/internal/model"

// PairCounter answers how many recorded matches two players shared a court in
type PairCounter interface {
	PairCount(a, b model.PlayerID) int
}

// pairKey is an unordered pair of players, normalised so that a < b
type pairKey struct {
	a, b model.PlayerID
}

func newPairKey(a, b model.PlayerID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// History is the append-only match log of a session. Pair counts are
// maintained incrementally as records are appended.
type History struct {
	records *[]model.MatchRecord
	pairs   map[pairKey]int
}

// NewHistory creates a history over the given record slice and indexes the
// existing records
func NewHistory(records *[]model.MatchRecord) *History {
	if *records == nil {
		*records = []model.MatchRecord{}
	}
	h := &History{
		records: records,
		pairs:   make(map[pairKey]int),
	}
	for i := range *records {
		h.index(&(*records)[i])
	}
	return h
}

// Append adds a record to the end of the history
func (h *History) Append(record model.MatchRecord) {
	*h.records = append(*h.records, record)
	h.index(&record)
}

// Len returns the number of recorded matches
func (h *History) Len() int {
	return len(*h.records)
}

// Recent returns up to n of the most recent records, oldest first.
// n <= 0 returns the whole history.
func (h *History) Recent(n int) []model.MatchRecord {
	all := *h.records
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	result := make([]model.MatchRecord, n)
	copy(result, all[len(all)-n:])
	return result
}

// PairCount returns the number of recorded matches containing both players
func (h *History) PairCount(a, b model.PlayerID) int {
	if a == b {
		return 0
	}
	return h.pairs[newPairKey(a, b)]
}

// Repeats sums PairCount over every unordered pair in players
func (h *History) Repeats(players []model.PlayerID) int {
	return repeats(h, players)
}

func (h *History) index(record *model.MatchRecord) {
	players := record.Players()
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			if players[i] == players[j] {
				continue
			}
			h.pairs[newPairKey(players[i], players[j])]++
		}
	}
}

func repeats(counter PairCounter, players []model.PlayerID) int {
	total := 0
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			total += counter.PairCount(players[i], players[j])
		}
	}
	return total
}
