package game

import (
	"math/rand"
)

// SelectQuestions picks length distinct question indices for a new round,
// avoiding the user's recently seen questions. It returns the selection in
// ask order plus the updated history to persist.
//
// History handling: once the record overflows its cap or covers the whole
// corpus, the oldest length entries are dropped before selection so the
// user can see questions again instead of starving. If rejection sampling
// has inspected every index without finding a fresh one, entries are reused
// from the history, oldest first, so the round always fills.
func SelectQuestions(corpusSize, length int, history []int, rng *rand.Rand) (selected, updated []int, err error) {
	if corpusSize == 0 || length == 0 {
		return nil, nil, ErrNoQuestions
	}
	if length > corpusSize {
		length = corpusSize
	}

	if len(history) > historyCap || len(history) >= corpusSize {
		drop := length
		if drop > len(history) {
			drop = len(history)
		}
		history = history[drop:]
	}

	avoid := make(map[int]struct{}, len(history)+length)
	for _, idx := range history {
		avoid[idx] = struct{}{}
	}

	selected = make([]int, 0, length)
	checked := make(map[int]struct{}, corpusSize)
	reuseCursor := 0

	for len(selected) < length {
		if len(checked) < corpusSize {
			candidate := rng.Intn(corpusSize)
			checked[candidate] = struct{}{}
			if _, taken := avoid[candidate]; taken {
				continue
			}
			avoid[candidate] = struct{}{}
			selected = append(selected, candidate)
			continue
		}

		// Everything has been inspected; reuse history entries in order.
		reused := false
		for reuseCursor < len(history) {
			candidate := history[reuseCursor]
			reuseCursor++
			if candidate < 0 || candidate >= corpusSize {
				continue
			}
			if containsInt(selected, candidate) {
				continue
			}
			selected = append(selected, candidate)
			reused = true
			break
		}
		if !reused {
			// History exhausted too; the round stays short of length.
			break
		}
	}

	if len(selected) == 0 {
		return nil, nil, ErrNoQuestions
	}

	updated = append(append([]int{}, history...), selected...)
	if len(updated) > historyCap {
		updated = updated[len(updated)-historyCap:]
	}
	return selected, updated, nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
