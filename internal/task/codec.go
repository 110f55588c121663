package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The codec reads two line grammars and writes one.
//
// Canonical (written):
//
//	- [<m>] #<id> | <text> | <origin> | <recur and meta tokens>
//
// Trailing empty fields are right-trimmed, so a task with no recurrence
// and no metadata ends in "| <origin> |". Meta tokens share the fourth
// field with the recurrence rule: @<date> last activity, ^<date> first
// daily appearance, added:<date> creation, snooze:<date>, due:<date>,
// scale:<float>.
//
// Legacy (read only):
//
//	- [<m>] <text> | @<date> (<rule>) snooze:<date> due:<date> #<id>
//
// Legacy metadata is order-flexible; the "|" separator is optional. A
// "(from: SEC > SUB)" group maps to the origin path "SEC:SUB".
//
// Any non-blank line that fits neither grammar is preserved verbatim
// and written back after its section's tasks.

var (
	headerRe     = regexp.MustCompile(`^(#{1,3}) (.*\S)\s*$`)
	taskPrefixRe = regexp.MustCompile(`^- \[(.)\] (.*)$`)

	idTokenRe     = regexp.MustCompile(`#(\d+)\b`)
	fromGroupRe   = regexp.MustCompile(`\(from:\s*([^)]+)\)`)
	recurGroupRe  = regexp.MustCompile(`\(([^)]*(?:daily|weekdays|weekly|monthly|recur:)[^)]*)\)`)
	legacyDateRe  = regexp.MustCompile(`@(\d{2}-\d{2}-\d{4})`)
	legacyTokenRe = regexp.MustCompile(`(\^|added:|snooze:|due:)(\d{2}-\d{2}-\d{4})`)
	scaleTokenRe  = regexp.MustCompile(`scale:(\d+(?:\.\d+)?)`)
)

// Parse parses a whole task file. It never fails: lines that fit no
// grammar are kept verbatim so the file round-trips.
func Parse(text string) (*Document, error) {
	doc := &Document{}

	var stack []*Section

	current := func() *Section {
		if len(stack) == 0 {
			return nil
		}

		return stack[len(stack)-1]
	}

	for line := range strings.SplitSeq(text, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(trimmed); m != nil {
			level := len(m[1])
			sec := &Section{Name: m[2], Level: level}

			for len(stack) > 0 && stack[len(stack)-1].Level >= level {
				stack = stack[:len(stack)-1]
			}

			if parent := current(); parent != nil {
				parent.Children = append(parent.Children, sec)
			} else {
				doc.Sections = append(doc.Sections, sec)
			}

			stack = append(stack, sec)

			continue
		}

		sec := current()
		if sec == nil {
			doc.Preamble = append(doc.Preamble, trimmed)
			continue
		}

		if t, ok := parseTaskLine(trimmed); ok {
			sec.Tasks = append(sec.Tasks, t)
		} else {
			sec.Opaque = append(sec.Opaque, trimmed)
		}
	}

	return doc, nil
}

// parseTaskLine parses one task line in either grammar. Returns false
// if the line is not a well-formed task; callers keep it opaque.
func parseTaskLine(line string) (*Task, bool) {
	m := taskPrefixRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, false
	}

	status, ok := StatusForMarker(m[1][0])
	if !ok {
		return nil, false
	}

	rest := m[2]

	if strings.HasPrefix(rest, "#") && strings.Contains(rest, "|") {
		return parseCanonical(status, rest)
	}

	return parseLegacy(status, rest)
}

func parseCanonical(status Status, rest string) (*Task, bool) {
	fields := strings.Split(rest, "|")
	if len(fields) < 2 || len(fields) > 4 {
		return nil, false
	}

	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	idStr, ok := strings.CutPrefix(fields[0], "#")
	if !ok {
		return nil, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		return nil, false
	}

	t := &Task{ID: id, Status: status, Text: fields[1]}
	if t.Text == "" {
		return nil, false
	}

	if len(fields) > 2 {
		t.Origin = fields[2]
	}

	if len(fields) > 3 && fields[3] != "" {
		if !parseTail(t, fields[3]) {
			return nil, false
		}
	}

	return t, true
}

// parseTail parses the fourth canonical field: an optional recurrence
// rule followed by meta tokens, space-separated in any order.
func parseTail(t *Task, tail string) bool {
	for tok := range strings.FieldsSeq(tail) {
		var err error

		switch {
		case strings.HasPrefix(tok, "@"):
			t.LastActivity, err = ParseDate(tok[1:])
		case strings.HasPrefix(tok, "^"):
			t.Appeared, err = ParseDate(tok[1:])
		case strings.HasPrefix(tok, "added:"):
			t.Created, err = ParseDate(tok[len("added:"):])
		case strings.HasPrefix(tok, "snooze:"):
			t.Snooze, err = ParseDate(tok[len("snooze:"):])
		case strings.HasPrefix(tok, "due:"):
			t.Due, err = ParseDate(tok[len("due:"):])
		case strings.HasPrefix(tok, "scale:"):
			t.AgingScale, err = strconv.ParseFloat(tok[len("scale:"):], 64)
		default:
			if !t.Recur.IsZero() {
				return false
			}

			t.Recur, err = ParseRule(tok)
		}

		if err != nil {
			return false
		}
	}

	return true
}

func parseLegacy(status Status, rest string) (*Task, bool) {
	idMatch := idTokenRe.FindStringSubmatch(rest)
	if idMatch == nil {
		return nil, false
	}

	id, err := strconv.Atoi(idMatch[1])
	if err != nil || id < 1 {
		return nil, false
	}

	t := &Task{ID: id, Status: status}
	rest = strings.Replace(rest, idMatch[0], "", 1)

	if m := fromGroupRe.FindStringSubmatch(rest); m != nil {
		parts := strings.Split(m[1], ">")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}

		t.Origin = strings.Join(parts, ":")
		rest = strings.Replace(rest, m[0], "", 1)
	}

	if m := recurGroupRe.FindStringSubmatch(rest); m != nil {
		t.Recur, err = ParseRule(m[1])
		if err != nil {
			return nil, false
		}

		rest = strings.Replace(rest, m[0], "", 1)
	}

	if m := legacyDateRe.FindStringSubmatch(rest); m != nil {
		t.LastActivity, err = ParseDate(m[1])
		if err != nil {
			return nil, false
		}

		rest = strings.Replace(rest, m[0], "", 1)
	}

	for _, m := range legacyTokenRe.FindAllStringSubmatch(rest, -1) {
		date, dateErr := ParseDate(m[2])
		if dateErr != nil {
			return nil, false
		}

		switch m[1] {
		case "^":
			t.Appeared = date
		case "added:":
			t.Created = date
		case "snooze:":
			t.Snooze = date
		case "due:":
			t.Due = date
		}

		rest = strings.Replace(rest, m[0], "", 1)
	}

	if m := scaleTokenRe.FindStringSubmatch(rest); m != nil {
		t.AgingScale, err = strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}

		rest = strings.Replace(rest, m[0], "", 1)
	}

	// What is left over, minus the optional metadata separator, is the
	// task text.
	rest = strings.ReplaceAll(rest, "|", " ")

	t.Text = strings.Join(strings.Fields(rest), " ")
	if t.Text == "" {
		return nil, false
	}

	return t, true
}

// forbiddenTextChars would collide with the line grammar: field
// separators, metadata sigils and grouping characters.
const forbiddenTextChars = "@#|()[]{}<\\~`"

// ValidateText checks that task text is non-empty and free of grammar
// characters, so the written line always parses back to the same task.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: task text is empty", ErrInvalidText)
	}

	if i := strings.IndexAny(text, forbiddenTextChars); i >= 0 {
		return fmt.Errorf("%w: %q must not contain %q", ErrInvalidText, text, text[i])
	}

	return nil
}

// FormatID renders a task ID. IDs up to 999 are zero-padded to three
// digits so lines align in the file.
func FormatID(id int) string {
	if id <= 999 {
		return "#" + strconv.Itoa(id+1000)[1:]
	}

	return "#" + strconv.Itoa(id)
}

// Serialize renders a document back to file text in the canonical
// grammar. Serialize(Parse(x)) is stable: parsing the output again
// yields the same document.
func Serialize(doc *Document) string {
	var b strings.Builder

	for _, line := range doc.Preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(doc.Preamble) > 0 {
		b.WriteByte('\n')
	}

	for _, sec := range doc.Sections {
		writeSection(&b, sec)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, sec *Section) {
	b.WriteString(strings.Repeat("#", sec.Level))
	b.WriteByte(' ')
	b.WriteString(sec.Name)
	b.WriteString("\n\n")

	for _, t := range sec.Tasks {
		b.WriteString(FormatTask(t))
		b.WriteByte('\n')
	}

	if len(sec.Tasks) > 0 {
		b.WriteByte('\n')
	}

	for _, line := range sec.Opaque {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(sec.Opaque) > 0 {
		b.WriteByte('\n')
	}

	for _, child := range sec.Children {
		writeSection(b, child)
	}
}

// FormatTask renders one task line in the canonical grammar.
func FormatTask(t *Task) string {
	var b strings.Builder

	b.WriteString("- [")
	b.WriteByte(t.Status.Marker())
	b.WriteString("] ")
	b.WriteString(FormatID(t.ID))
	b.WriteString(" | ")
	b.WriteString(t.Text)
	b.WriteString(" | ")
	b.WriteString(t.Origin)
	b.WriteString(" | ")
	b.WriteString(formatTail(t))

	return strings.TrimRight(b.String(), " ")
}

func formatTail(t *Task) string {
	var toks []string

	if !t.Recur.IsZero() {
		toks = append(toks, t.Recur.String())
	}

	if !t.LastActivity.IsZero() {
		toks = append(toks, "@"+FormatDate(t.LastActivity))
	}

	if !t.Appeared.IsZero() {
		toks = append(toks, "^"+FormatDate(t.Appeared))
	}

	if !t.Created.IsZero() {
		toks = append(toks, "added:"+FormatDate(t.Created))
	}

	if !t.Snooze.IsZero() {
		toks = append(toks, "snooze:"+FormatDate(t.Snooze))
	}

	if !t.Due.IsZero() {
		toks = append(toks, "due:"+FormatDate(t.Due))
	}

	if t.AgingScale != 0 && t.AgingScale != 1 {
		toks = append(toks, "scale:"+strconv.FormatFloat(t.AgingScale, 'g', -1, 64))
	}

	return strings.Join(toks, " ")
}
