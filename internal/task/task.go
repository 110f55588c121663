// Package task implements the plain-text task file engine: the document
// model, the line codec, recurrence, daily sessions, sync, scoring and
// archival. The package is pure; reading and writing the file on disk is
// the store's job.
package task

import (
	"strings"
	"time"
)

// Top-level section names. Every task file has these three level-1
// sections, in this order.
const (
	SectionDaily   = "DAILY"
	SectionMain    = "MAIN"
	SectionArchive = "ARCHIVE"
)

// MaxHeaderLevel is the deepest header the codec recognizes (###).
const MaxHeaderLevel = 3

// Status is the tri-state completion status of a task.
type Status int

const (
	NotStarted Status = iota
	Progress
	Done
)

// Marker returns the checkbox character for the status.
func (s Status) Marker() byte {
	switch s {
	case Progress:
		return '~'
	case Done:
		return 'x'
	default:
		return ' '
	}
}

// StatusForMarker maps a checkbox character to a status.
// The second return is false for unknown markers.
func StatusForMarker(c byte) (Status, bool) {
	switch c {
	case ' ':
		return NotStarted, true
	case '~':
		return Progress, true
	case 'x':
		return Done, true
	default:
		return NotStarted, false
	}
}

func (s Status) String() string {
	switch s {
	case Progress:
		return "in_progress"
	case Done:
		return "done"
	default:
		return "not_started"
	}
}

// Task is a single task line.
//
// Origin is the path of the main-list section the task belongs to
// ("WORK" or "WORK:PROJECT"). On daily entries an empty Origin marks an
// ad-hoc entry that has no main-list counterpart.
type Task struct {
	ID     int
	Status Status
	Text   string
	Origin string

	Recur Rule

	// LastActivity is the @ date: the last day something happened to
	// the task (created, progressed, completed, synced).
	LastActivity time.Time

	// Appeared is the ^ date on daily entries: the day the entry first
	// showed up in a daily section. Carried-over entries keep it.
	Appeared time.Time

	// Created is the added: date, used for age scoring. Zero on tasks
	// imported from files that never recorded it.
	Created time.Time

	Snooze time.Time
	Due    time.Time

	// AgingScale weights the age score. Zero means the default of 1.0.
	AgingScale float64
}

// Snoozed reports whether the task is snoozed past the reference day.
func (t *Task) Snoozed(ref time.Time) bool {
	return !t.Snooze.IsZero() && t.Snooze.After(ref)
}

// Recurring reports whether the task has a recurrence rule.
func (t *Task) Recurring() bool {
	return !t.Recur.IsZero()
}

// Section is a header plus everything under it: tasks, verbatim lines
// the codec could not parse, and subsections.
type Section struct {
	Name  string
	Level int

	Tasks    []*Task
	Opaque   []string
	Children []*Section
}

// Child returns the direct child section with the given name, or nil.
func (s *Section) Child(name string) *Section {
	for _, c := range s.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Find returns the task with the given ID anywhere under the section.
func (s *Section) Find(id int) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}

	for _, c := range s.Children {
		if t := c.Find(id); t != nil {
			return t
		}
	}

	return nil
}

// Walk visits every task under the section. path is the colon-joined
// section path below the receiver ("" for the receiver's own tasks,
// "WORK" or "WORK:PROJECT" for nested ones).
func (s *Section) Walk(fn func(path string, sec *Section, t *Task)) {
	s.walk("", fn)
}

func (s *Section) walk(path string, fn func(string, *Section, *Task)) {
	for _, t := range s.Tasks {
		fn(path, s, t)
	}

	for _, c := range s.Children {
		childPath := c.Name
		if path != "" {
			childPath = path + ":" + c.Name
		}

		c.walk(childPath, fn)
	}
}

// Remove deletes the task with the given ID from the section tree.
// Returns true if a task was removed.
func (s *Section) Remove(id int) bool {
	for i, t := range s.Tasks {
		if t.ID == id {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return true
		}
	}

	for _, c := range s.Children {
		if c.Remove(id) {
			return true
		}
	}

	return false
}

// Document is a parsed task file: an optional preamble of verbatim lines
// before the first header, followed by the top-level sections.
type Document struct {
	Preamble []string
	Sections []*Section
}

// Section returns the top-level section with the given name, or nil.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}

	return nil
}

// EnsureSection returns the named top-level section, creating it in
// canonical position (DAILY, MAIN, ARCHIVE, then anything else) when
// missing.
func (d *Document) EnsureSection(name string) *Section {
	if s := d.Section(name); s != nil {
		return s
	}

	sec := &Section{Name: name, Level: 1}

	switch name {
	case SectionDaily:
		d.Sections = append([]*Section{sec}, d.Sections...)
	case SectionMain:
		for i, s := range d.Sections {
			if s.Name == SectionArchive {
				d.Sections = append(d.Sections[:i], append([]*Section{sec}, d.Sections[i:]...)...)
				return sec
			}
		}

		d.Sections = append(d.Sections, sec)
	default:
		d.Sections = append(d.Sections, sec)
	}

	return sec
}

// Main returns the MAIN section, creating it if missing.
func (d *Document) Main() *Section {
	return d.EnsureSection(SectionMain)
}

// Find returns the task with the given ID anywhere in the document.
func (d *Document) Find(id int) *Task {
	for _, s := range d.Sections {
		if t := s.Find(id); t != nil {
			return t
		}
	}

	return nil
}

// MainSection resolves a section path like "WORK" or "WORK:PROJECT"
// under MAIN. Returns nil if any component is missing.
func (d *Document) MainSection(path string) *Section {
	main := d.Section(SectionMain)
	if main == nil {
		return nil
	}

	if path == "" {
		return main
	}

	sec := main
	for part := range strings.SplitSeq(path, ":") {
		sec = sec.Child(part)
		if sec == nil {
			return nil
		}
	}

	return sec
}

// EnsureMainSection resolves a section path under MAIN, creating the
// missing components.
func (d *Document) EnsureMainSection(path string) *Section {
	sec := d.Main()
	if path == "" {
		return sec
	}

	level := sec.Level
	for part := range strings.SplitSeq(path, ":") {
		level++
		if level > MaxHeaderLevel {
			return sec
		}

		child := sec.Child(part)
		if child == nil {
			child = &Section{Name: part, Level: level}
			sec.Children = append(sec.Children, child)
		}

		sec = child
	}

	return sec
}
