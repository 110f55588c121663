package task

import (
	"fmt"
	"sort"
	"time"
)

// DailyOptions controls daily section creation.
type DailyOptions struct {
	// CarryOver copies unfinished entries from the previous daily
	// section into the new one.
	CarryOver bool
}

// EnsureDaily returns today's daily section, creating it if missing.
// The bool reports whether a new section was created; calling it again
// on the same day returns the existing section untouched.
//
// A fresh section is filled with the due recurring tasks from MAIN
// (newest due date first) followed by the unfinished entries carried
// over from the previous daily section. Daily copies reference their
// main task by ID and origin path; the rule itself stays on the main
// task. Fresh copies are stamped with today as their appearance date.
// Carried entries are reset to not-started and keep their activity and
// appearance dates. An entry whose ID already got a fresh recurring
// instance is not carried again, and neither is a recurring entry
// whose rule is not due today.
func EnsureDaily(doc *Document, today time.Time, opts DailyOptions) (*Section, bool) {
	today = Day(today)
	daily := doc.EnsureSection(SectionDaily)

	name := FormatDate(today)
	if sec := daily.Child(name); sec != nil {
		return sec, false
	}

	sec := &Section{Name: name, Level: 2}
	seen := make(map[int]bool)

	for _, d := range dueRecurring(doc, today) {
		sec.Tasks = append(sec.Tasks, &Task{
			ID:       d.task.ID,
			Status:   NotStarted,
			Text:     d.task.Text,
			Origin:   d.origin,
			Appeared: today,
		})
		seen[d.task.ID] = true
	}

	if opts.CarryOver {
		carryOver(doc, daily, sec, seen, today)
	}

	daily.Children = append([]*Section{sec}, daily.Children...)

	return sec, true
}

type dueEntry struct {
	task   *Task
	origin string
	due    time.Time
}

// dueRecurring collects the recurring main tasks due on today, sorted
// newest due date first.
func dueRecurring(doc *Document, today time.Time) []dueEntry {
	main := doc.Section(SectionMain)
	if main == nil {
		return nil
	}

	var due []dueEntry

	main.Walk(func(path string, _ *Section, t *Task) {
		if !t.Recurring() || t.Snoozed(today) {
			return
		}

		if !t.Recur.IsDue(t.LastActivity, today) {
			return
		}

		when := today
		if !t.LastActivity.IsZero() {
			when = t.Recur.NextDue(t.LastActivity)
		}

		due = append(due, dueEntry{task: t, origin: path, due: when})
	})

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].due.After(due[j].due)
	})

	return due
}

// carryOver copies the unfinished entries of the most recent previous
// daily section into sec. Entries backed by a recurring main task are
// only carried when the rule is due again; a due rule already produced
// a fresh instance, so in practice recurring entries restart on their
// own schedule instead of lingering.
func carryOver(doc *Document, daily, sec *Section, seen map[int]bool, today time.Time) {
	prev, prevDate := mostRecentDaily(daily, today)
	if prev == nil {
		return
	}

	for _, t := range prev.Tasks {
		if t.Status == Done || seen[t.ID] {
			continue
		}

		if t.Origin != "" {
			if _, main := findMain(doc, t.ID); main != nil && main.Recurring() && !main.Recur.IsDue(main.LastActivity, today) {
				continue
			}
		}

		carried := *t
		carried.Status = NotStarted

		if carried.Appeared.IsZero() {
			carried.Appeared = prevDate
		}

		sec.Tasks = append(sec.Tasks, &carried)
		seen[t.ID] = true
	}
}

// mostRecentDaily returns the daily subsection with the latest date
// before the given day. Children with non-date names are skipped.
func mostRecentDaily(daily *Section, before time.Time) (*Section, time.Time) {
	var (
		best     *Section
		bestDate time.Time
	)

	for _, c := range daily.Children {
		d, err := ParseDate(c.Name)
		if err != nil || !d.Before(before) {
			continue
		}

		if best == nil || d.After(bestDate) {
			best = c
			bestDate = d
		}
	}

	return best, bestDate
}

// Pull ensures the task with the given ID has an entry in today's
// daily section, copying it from MAIN if needed, and returns that
// entry. Marking commands go through Pull so progress is always
// recorded in the day it happened. A new entry goes on top of the
// section, like every other insertion.
func Pull(doc *Document, id int, today time.Time, opts DailyOptions) (*Task, error) {
	today = Day(today)
	sec, _ := EnsureDaily(doc, today, opts)

	for _, t := range sec.Tasks {
		if t.ID == id {
			return t, nil
		}
	}

	origin, src := findMain(doc, id)
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, FormatID(id))
	}

	entry := &Task{
		ID:           src.ID,
		Status:       NotStarted,
		Text:         src.Text,
		Origin:       origin,
		LastActivity: src.LastActivity,
		Appeared:     today,
	}
	sec.Tasks = append([]*Task{entry}, sec.Tasks...)

	return entry, nil
}

// findMain locates a task by ID under MAIN and returns its origin path.
func findMain(doc *Document, id int) (string, *Task) {
	main := doc.Section(SectionMain)
	if main == nil {
		return "", nil
	}

	var (
		origin string
		found  *Task
	)

	main.Walk(func(path string, _ *Section, t *Task) {
		if found == nil && t.ID == id {
			origin = path
			found = t
		}
	})

	return origin, found
}
