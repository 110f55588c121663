package task

import (
	"fmt"
	"time"
)

// SyncReport summarizes one reconciliation run.
type SyncReport struct {
	// Date is the daily section's date, which is also the activity
	// date stamped on the main tasks.
	Date time.Time

	// Completed counts entries folded back as done (or, for recurring
	// tasks, as completed occurrences).
	Completed int

	// Progressed counts entries whose activity date was refreshed
	// without a status change.
	Progressed int

	// Missing lists entry IDs whose main task no longer exists. The
	// entries themselves are left alone.
	Missing []int
}

// SyncDaily folds the daily section for the given date back into MAIN:
//
//	done entry, recurring main task     -> main stays not-started,
//	                                       activity date = section date
//	done entry, non-recurring main task -> main becomes done
//	in-progress entry                   -> activity date only
//	not-started entry                   -> untouched
//
// Entries with an empty origin are ad-hoc and never synced. Entries
// whose origin names a main task that no longer exists are reported in
// Missing. The section date, not the wall clock, is the activity date,
// so syncing an old day does not fabricate recent activity.
func SyncDaily(doc *Document, date time.Time) (*SyncReport, error) {
	date = Day(date)

	daily := doc.Section(SectionDaily)
	if daily == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDailySection, FormatDate(date))
	}

	sec := daily.Child(FormatDate(date))
	if sec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDailySection, FormatDate(date))
	}

	report := &SyncReport{Date: date}

	for _, entry := range sec.Tasks {
		if entry.Origin == "" || entry.Status == NotStarted {
			continue
		}

		_, main := findMain(doc, entry.ID)
		if main == nil {
			report.Missing = append(report.Missing, entry.ID)
			continue
		}

		switch entry.Status {
		case Done:
			if main.Recurring() {
				main.Status = NotStarted
			} else {
				main.Status = Done
			}

			main.LastActivity = date
			report.Completed++

		case Progress:
			main.LastActivity = date
			report.Progressed++
		}
	}

	return report, nil
}

// SyncMostRecent syncs the newest daily section on or before today.
func SyncMostRecent(doc *Document, today time.Time) (*SyncReport, error) {
	today = Day(today)

	daily := doc.Section(SectionDaily)
	if daily == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDailySection, FormatDate(today))
	}

	if daily.Child(FormatDate(today)) != nil {
		return SyncDaily(doc, today)
	}

	prev, prevDate := mostRecentDaily(daily, today)
	if prev == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDailySection, FormatDate(today))
	}

	return SyncDaily(doc, prevDate)
}
