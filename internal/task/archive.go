package task

import "time"

// ArchivePolicy controls what archived daily sections keep.
type ArchivePolicy int

const (
	// ArchiveFull moves daily sections wholesale, entries included.
	ArchiveFull ArchivePolicy = iota

	// ArchiveHeaders keeps only the dated headers; the entries are
	// dropped. Their outcomes were already folded into MAIN by sync.
	ArchiveHeaders
)

// ParseArchivePolicy maps a config value to a policy.
func ParseArchivePolicy(s string) (ArchivePolicy, error) {
	switch s {
	case "", "full":
		return ArchiveFull, nil
	case "headers":
		return ArchiveHeaders, nil
	default:
		return ArchiveFull, ErrInvalidArchivePolicy
	}
}

// ArchiveOld moves daily sections older than days to ARCHIVE and
// returns how many were moved. Today's section and anything newer than
// the threshold stay. Sections whose name is not a date are left
// alone. If the archive already has a section for that date the
// entries are merged into it.
//
// Archived sections keep their relative order and newer days stay on
// top, matching the DAILY layout.
func ArchiveOld(doc *Document, days int, today time.Time, policy ArchivePolicy) int {
	daily := doc.Section(SectionDaily)
	if daily == nil {
		return 0
	}

	cutoff := AddDays(today, -days)

	var (
		keep  []*Section
		moved []*Section
	)

	for _, c := range daily.Children {
		d, err := ParseDate(c.Name)
		if err != nil || !d.Before(cutoff) {
			keep = append(keep, c)
			continue
		}

		moved = append(moved, c)
	}

	if len(moved) == 0 {
		return 0
	}

	daily.Children = keep
	archive := doc.EnsureSection(SectionArchive)

	for _, sec := range moved {
		if policy == ArchiveHeaders {
			sec.Tasks = nil
		}

		if existing := archive.Child(sec.Name); existing != nil {
			existing.Tasks = append(existing.Tasks, sec.Tasks...)
			existing.Opaque = append(existing.Opaque, sec.Opaque...)

			continue
		}

		archive.Children = append(archive.Children, sec)
	}

	return len(moved)
}
