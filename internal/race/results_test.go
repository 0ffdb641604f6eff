package race

import (
	"testing"

	"github.com/partywall/api/internal/model"
)

func slot(code string, seconds, millis *int) model.Slot {
	return model.Slot{Code: code, TimeTakenSeconds: seconds, TimeTakenMS: millis}
}

func intp(v int) *int { return &v }

func TestRankFastestFlag(t *testing.T) {
	slots := []model.Slot{
		slot("1111", intp(45), intp(45120)),
		slot("2222", intp(12), intp(12900)),
		slot("3333", nil, nil),
		slot("4444", intp(30), intp(30001)),
	}

	results := Rank(slots)

	flagged := map[string]bool{}
	for _, r := range results {
		flagged[r.Code] = r.IsFastest
	}

	if !flagged["2222"] {
		t.Error("fastest slot 2222 not flagged")
	}
	for _, code := range []string{"1111", "3333", "4444"} {
		if flagged[code] {
			t.Errorf("slot %s flagged fastest, want unflagged", code)
		}
	}
}

func TestRankTiesAllFlagged(t *testing.T) {
	// Two slots tie at one-second resolution; both carry the flag even though
	// their millisecond values differ.
	slots := []model.Slot{
		slot("1111", intp(20), intp(20750)),
		slot("2222", intp(20), intp(20100)),
		slot("3333", intp(25), intp(25000)),
	}

	results := Rank(slots)

	for _, r := range results {
		want := *r.TimeTakenSeconds == 20
		if r.IsFastest != want {
			t.Errorf("slot %s: IsFastest = %v, want %v", r.Code, r.IsFastest, want)
		}
	}

	// The display sort does break the tie by milliseconds.
	if results[0].Code != "2222" || results[1].Code != "1111" {
		t.Errorf("sort order = %s, %s; want 2222, 1111", results[0].Code, results[1].Code)
	}
}

func TestRankIncompleteLast(t *testing.T) {
	slots := []model.Slot{
		slot("1111", nil, nil),
		slot("2222", intp(50), intp(50000)),
	}

	results := Rank(slots)

	if results[0].Code != "2222" {
		t.Errorf("completed slot should sort first, got %s", results[0].Code)
	}
	if results[1].IsFastest {
		t.Error("incomplete slot flagged fastest")
	}
}

func TestRankNoCompletions(t *testing.T) {
	slots := []model.Slot{
		slot("1111", nil, nil),
		slot("2222", nil, nil),
	}

	for _, r := range Rank(slots) {
		if r.IsFastest {
			t.Errorf("slot %s flagged fastest with no completions", r.Code)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if results := Rank(nil); len(results) != 0 {
		t.Errorf("Rank(nil) returned %d results", len(results))
	}
}
