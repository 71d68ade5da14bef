package rotation

import "github.com/mcoot/openplay-go/internal/model"

// SelectCandidate picks the queue member that adds the fewest repeat pairings
// to the partial court. Ties go to the earliest queue position. It returns the
// pick and the queue with the pick removed; ok is false if the queue is empty.
func SelectCandidate(partial, queue []model.PlayerID, counter PairCounter) (pick model.PlayerID, rest []model.PlayerID, ok bool) {
	if len(queue) == 0 {
		return "", queue, false
	}

	group := make([]model.PlayerID, len(partial), len(partial)+1)
	copy(group, partial)
	group = append(group, "")

	bestIdx := 0
	bestCount := -1
	for i, candidate := range queue {
		group[len(group)-1] = candidate
		count := repeats(counter, group)
		if bestCount < 0 || count < bestCount {
			bestIdx = i
			bestCount = count
		}
	}

	pick = queue[bestIdx]
	rest = make([]model.PlayerID, 0, len(queue)-1)
	rest = append(rest, queue[:bestIdx]...)
	rest = append(rest, queue[bestIdx+1:]...)
	return pick, rest, true
}

// fill draws candidates from the queue until the court is full or the queue
// is exhausted
func fill(court, queue []model.PlayerID, counter PairCounter) (model.Court, []model.PlayerID) {
	result := make(model.Court, len(court), model.CourtSize)
	copy(result, court)
	for len(result) < model.CourtSize {
		pick, rest, ok := SelectCandidate(result, queue, counter)
		if !ok {
			break
		}
		result = append(result, pick)
		queue = rest
	}
	return result, queue
}
