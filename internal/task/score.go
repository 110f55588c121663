package task

import (
	"sort"
	"strings"
	"time"
)

// Ranked is one row of a staleness or age ranking.
type Ranked struct {
	Task    *Task
	Section string

	// Days is the raw day count behind the score: days since last
	// activity for staleness, days since creation for age.
	Days int

	// Score is Days weighted by the task's aging scale. For staleness
	// rankings Score equals Days.
	Score float64
}

// RankStale ranks main-list tasks by days since last activity, most
// neglected first. Recurring tasks, done tasks, and tasks snoozed past
// today are excluded; they are not neglected, just scheduled. scope
// restricts the ranking to one top-level section under MAIN ("" means
// all). limit <= 0 means no limit.
func RankStale(doc *Document, today time.Time, scope string, limit int) []Ranked {
	today = Day(today)

	var out []Ranked

	walkScope(doc, scope, func(path string, t *Task) {
		if t.Recurring() || t.Status == Done || t.Snoozed(today) {
			return
		}

		ref := t.LastActivity
		if ref.IsZero() {
			ref = t.Created
		}

		if ref.IsZero() {
			return
		}

		days := DaysBetween(ref, today)
		out = append(out, Ranked{Task: t, Section: path, Days: days, Score: float64(days)})
	})

	return sortRanked(out, limit)
}

// RankByAge ranks main-list tasks by weighted days since creation,
// oldest first. Only recurring tasks are excluded: a done task that
// was never purged still ages. The aging scale weights the score so
// slow-burn tasks can be damped (scale < 1) or urgent ones amplified;
// defaultScale applies to tasks with no scale of their own.
func RankByAge(doc *Document, today time.Time, scope string, limit int, defaultScale float64) []Ranked {
	today = Day(today)

	if defaultScale <= 0 {
		defaultScale = 1
	}

	var out []Ranked

	walkScope(doc, scope, func(path string, t *Task) {
		if t.Recurring() {
			return
		}

		ref := t.Created
		if ref.IsZero() {
			ref = t.LastActivity
		}

		if ref.IsZero() {
			return
		}

		scale := t.AgingScale
		if scale == 0 {
			scale = defaultScale
		}

		days := DaysBetween(ref, today)
		out = append(out, Ranked{Task: t, Section: path, Days: days, Score: float64(days) * scale})
	})

	return sortRanked(out, limit)
}

// walkScope visits main-list tasks, optionally restricted to one
// top-level section (matched case-insensitively on the first path
// component).
func walkScope(doc *Document, scope string, fn func(path string, t *Task)) {
	main := doc.Section(SectionMain)
	if main == nil {
		return
	}

	main.Walk(func(path string, _ *Section, t *Task) {
		if scope != "" {
			top, _, _ := strings.Cut(path, ":")
			if !strings.EqualFold(top, scope) {
				return
			}
		}

		fn(path, t)
	})
}

func sortRanked(out []Ranked, limit int) []Ranked {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
