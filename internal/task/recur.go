package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RuleKind enumerates the recurrence rule families.
type RuleKind int

const (
	RuleNone RuleKind = iota
	RuleDaily
	RuleWeekdays
	RuleWeekly
	RuleMonthly
	RuleEvery
)

// Rule is a parsed recurrence rule. The zero value means "not
// recurring".
type Rule struct {
	Kind RuleKind

	// Weekdays holds the target days for RuleWeekly.
	Weekdays []time.Weekday

	// MonthDay is the target day of month for RuleMonthly, already
	// validated to 1..31. Clamping to short months happens in NextDue.
	MonthDay int

	// EveryDays is the summed interval in days for RuleEvery.
	EveryDays int

	raw string
}

// IsZero reports whether the rule is empty (task not recurring).
func (r Rule) IsZero() bool {
	return r.Kind == RuleNone
}

// String returns the rule in its written form ("daily",
// "weekly:mon,fri", "recur:2w", ...).
func (r Rule) String() string {
	return r.raw
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseRule parses a recurrence pattern. Supported forms:
//
//	daily
//	weekdays
//	weekly              (Sunday)
//	weekly:mon,wed,fri
//	monthly             (the 1st)
//	monthly:15th        (st/nd/rd/th suffix optional)
//	recur:3d            (intervals d/w/m/y, comma-separated and summed)
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "daily":
		return Rule{Kind: RuleDaily, raw: s}, nil

	case s == "weekdays":
		return Rule{Kind: RuleWeekdays, raw: s}, nil

	case s == "weekly":
		return Rule{Kind: RuleWeekly, Weekdays: []time.Weekday{time.Sunday}, raw: s}, nil

	case strings.HasPrefix(s, "weekly:"):
		return parseWeekly(s)

	case s == "monthly":
		return Rule{Kind: RuleMonthly, MonthDay: 1, raw: s}, nil

	case strings.HasPrefix(s, "monthly:"):
		return parseMonthly(s)

	case strings.HasPrefix(s, "recur:"):
		return parseEvery(s)

	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}
}

func parseWeekly(s string) (Rule, error) {
	var days []time.Weekday

	for part := range strings.SplitSeq(strings.TrimPrefix(s, "weekly:"), ",") {
		day, ok := weekdayNames[strings.TrimSpace(part)]
		if !ok {
			return Rule{}, fmt.Errorf("%w: %q: unknown weekday %q", ErrInvalidRule, s, part)
		}

		days = append(days, day)
	}

	if len(days) == 0 {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}

	return Rule{Kind: RuleWeekly, Weekdays: days, raw: s}, nil
}

func parseMonthly(s string) (Rule, error) {
	part := strings.TrimPrefix(s, "monthly:")

	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(part, suffix) {
			part = strings.TrimSuffix(part, suffix)
			break
		}
	}

	day, err := strconv.Atoi(part)
	if err != nil || day < 1 || day > 31 {
		return Rule{}, fmt.Errorf("%w: %q: day must be 1-31", ErrInvalidRule, s)
	}

	return Rule{Kind: RuleMonthly, MonthDay: day, raw: s}, nil
}

func parseEvery(s string) (Rule, error) {
	total := 0

	for part := range strings.SplitSeq(strings.TrimPrefix(s, "recur:"), ",") {
		part = strings.TrimSpace(part)
		if len(part) < 2 {
			return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
		}

		n, err := strconv.Atoi(part[:len(part)-1])
		if err != nil || n < 1 {
			return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
		}

		switch part[len(part)-1] {
		case 'd':
			total += n
		case 'w':
			total += n * 7
		case 'm':
			total += n * 30
		case 'y':
			total += n * 365
		default:
			return Rule{}, fmt.Errorf("%w: %q: unknown unit %q", ErrInvalidRule, s, part[len(part)-1:])
		}
	}

	if total == 0 {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}

	return Rule{Kind: RuleEvery, EveryDays: total, raw: s}, nil
}

var inlineRuleRe = regexp.MustCompile(`\s*\(([^)]*(?:daily|weekdays|weekly|monthly|recur:)[^)]*)\)`)

// ExtractInlineRule splits an inline recurrence pattern out of task
// text, as typed in "water plants (recur:3d)". Returns the text with
// the pattern removed and the parsed rule. Text without a pattern
// comes back unchanged with a zero rule; a malformed pattern is an
// error, never silently dropped.
func ExtractInlineRule(text string) (string, Rule, error) {
	m := inlineRuleRe.FindStringSubmatch(text)
	if m == nil {
		return text, Rule{}, nil
	}

	rule, err := ParseRule(m[1])
	if err != nil {
		return "", Rule{}, err
	}

	rest := strings.TrimSpace(strings.Replace(text, m[0], "", 1))

	return rest, rule, nil
}

// NextDue returns the first due day strictly after from. It is pure and
// monotonic: NextDue(d) > d for every d.
func (r Rule) NextDue(from time.Time) time.Time {
	from = Day(from)

	switch r.Kind {
	case RuleDaily:
		return AddDays(from, 1)

	case RuleWeekdays:
		next := AddDays(from, 1)
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = AddDays(next, 1)
		}

		return next

	case RuleWeekly:
		for i := 1; i <= 7; i++ {
			next := AddDays(from, i)
			for _, day := range r.Weekdays {
				if next.Weekday() == day {
					return next
				}
			}
		}

		return AddDays(from, 7)

	case RuleMonthly:
		candidate := r.clampToMonth(from)
		if candidate.After(from) {
			return candidate
		}

		firstOfNext := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

		return r.clampToMonth(firstOfNext)

	case RuleEvery:
		return AddDays(from, r.EveryDays)

	default:
		return time.Time{}
	}
}

// clampToMonth returns the rule's target day within t's month, clamped
// to the month's last day (monthly:31st in February yields Feb 28/29).
func (r Rule) clampToMonth(t time.Time) time.Time {
	day := r.MonthDay
	if last := daysInMonth(t); day > last {
		day = last
	}

	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC)
}

// IsDue reports whether a task with this rule and the given last
// activity day is due on ref. A zero last means the task never
// appeared; it is due immediately.
func (r Rule) IsDue(last, ref time.Time) bool {
	if r.IsZero() {
		return false
	}

	if last.IsZero() {
		return true
	}

	return !r.NextDue(last).After(Day(ref))
}
