package task

import (
	"regexp"
	"strconv"
)

var idScanRe = regexp.MustCompile(`#(\d+)\b`)

// NextID allocates the next task ID: the highest ID anywhere in the
// document plus one, starting at 1. The scan covers every section
// (daily entries, archive, and all) plus opaque lines, so an ID is
// never reused even when its task only survives in unparsed text.
//
// The full scan is deliberate. The file is small, and max+1 over the
// whole document keeps allocation correct without any state outside
// the file itself.
func NextID(doc *Document) int {
	highest := 0

	scanLines := func(lines []string) {
		for _, line := range lines {
			for _, m := range idScanRe.FindAllStringSubmatch(line, -1) {
				if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
					highest = n
				}
			}
		}
	}

	var scanSection func(*Section)

	scanSection = func(sec *Section) {
		for _, t := range sec.Tasks {
			if t.ID > highest {
				highest = t.ID
			}
		}

		scanLines(sec.Opaque)

		for _, c := range sec.Children {
			scanSection(c)
		}
	}

	scanLines(doc.Preamble)

	for _, sec := range doc.Sections {
		scanSection(sec)
	}

	return highest + 1
}
