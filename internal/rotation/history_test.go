package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/openplay-go/internal/model"
)

func record(lineup ...model.PlayerID) model.MatchRecord {
	return model.MatchRecord{
		WinningTeam: model.Team1,
		Winners:     []model.PlayerID{lineup[0], lineup[1]},
		Losers:      []model.PlayerID{lineup[2], lineup[3]},
		Lineup:      lineup,
	}
}

func TestHistoryIndexesExistingRecords(t *testing.T) {
	records := []model.MatchRecord{record("A", "B", "C", "D")}
	h := NewHistory(&records)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, h.PairCount("A", "B"))
	assert.Equal(t, 1, h.PairCount("D", "A"))
	assert.Equal(t, 0, h.PairCount("A", "E"))
	assert.Equal(t, 0, h.PairCount("A", "A"))
}

func TestHistoryAppendUpdatesCounts(t *testing.T) {
	var records []model.MatchRecord
	h := NewHistory(&records)

	h.Append(record("A", "B", "C", "D"))
	h.Append(record("A", "C", "E", "F"))

	assert.Len(t, records, 2)
	assert.Equal(t, 2, h.PairCount("A", "C"))
	assert.Equal(t, 2, h.PairCount("C", "A"))
	assert.Equal(t, 1, h.PairCount("E", "F"))
}

func TestHistoryCountsWithoutLineup(t *testing.T) {
	records := []model.MatchRecord{{
		Winners: []model.PlayerID{"A", "B"},
		Losers:  []model.PlayerID{"C", "D"},
	}}
	h := NewHistory(&records)

	assert.Equal(t, 1, h.PairCount("B", "C"))
}

func TestHistoryRepeats(t *testing.T) {
	records := []model.MatchRecord{
		record("A", "B", "C", "D"),
		record("A", "B", "E", "F"),
	}
	h := NewHistory(&records)

	// (A,B)=2, (A,C)=1, (B,C)=1
	assert.Equal(t, 4, h.Repeats([]model.PlayerID{"A", "B", "C"}))
	assert.Equal(t, 0, h.Repeats([]model.PlayerID{"C", "E"}))
	assert.Equal(t, 0, h.Repeats(nil))
}

func TestHistoryRecent(t *testing.T) {
	var records []model.MatchRecord
	h := NewHistory(&records)
	for i := 1; i <= 3; i++ {
		r := record("A", "B", "C", "D")
		r.Ordinal = i
		h.Append(r)
	}

	recent := h.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].Ordinal)
	assert.Equal(t, 3, recent[1].Ordinal)

	assert.Len(t, h.Recent(0), 3)
	assert.Len(t, h.Recent(10), 3)
}

func TestRegistryDefaultsToZero(t *testing.T) {
	r := NewRegistry(nil)

	assert.Equal(t, 0, r.StreakOf("unknown"))

	r.RecordWin("A")
	r.RecordWin("A")
	assert.Equal(t, 2, r.StreakOf("A"))

	r.RecordReset("A")
	assert.Equal(t, 0, r.StreakOf("A"))
}
