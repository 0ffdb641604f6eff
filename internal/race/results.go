package race

import (
	"sort"

	"github.com/partywall/api/internal/model"
)

// Result is a slot annotated with the fastest flag for the admin results view.
type Result struct {
	model.Slot
	IsFastest bool `json:"isFastest"`
}

// Rank computes the fastest flag and sorts for display. The flag is decided at
// one-second resolution: every completed slot whose time_taken_seconds equals
// the minimum is flagged, so ties are all flagged. The sort order additionally
// breaks ties by milliseconds; the flag deliberately does not (matching the
// long-standing behavior of the results view).
func Rank(slots []model.Slot) []Result {
	minSeconds, found := fastestSeconds(slots)

	results := make([]Result, 0, len(slots))
	for _, s := range slots {
		results = append(results, Result{
			Slot:      s,
			IsFastest: found && s.TimeTakenSeconds != nil && *s.TimeTakenSeconds == minSeconds,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		as, bs := secondsOrMax(a.TimeTakenSeconds), secondsOrMax(b.TimeTakenSeconds)
		if as != bs {
			return as < bs
		}
		return secondsOrMax(a.TimeTakenMS) < secondsOrMax(b.TimeTakenMS)
	})

	return results
}

func fastestSeconds(slots []model.Slot) (int, bool) {
	minSeconds := 0
	found := false
	for _, s := range slots {
		if s.TimeTakenSeconds == nil {
			continue
		}
		if !found || *s.TimeTakenSeconds < minSeconds {
			minSeconds = *s.TimeTakenSeconds
			found = true
		}
	}
	return minSeconds, found
}

func secondsOrMax(v *int) int {
	if v == nil {
		return int(^uint(0) >> 1)
	}
	return *v
}
