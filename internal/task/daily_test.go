package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, text string) *Document {
	t.Helper()

	doc, err := Parse(text)
	require.NoError(t, err)

	return doc
}

func TestEnsureDailyIsIdempotent(t *testing.T) {
	doc := buildDoc(t, `# DAILY

# MAIN

## HOME

- [ ] #007 | water plants | HOME | daily
`)

	today := mustParse("15-01-2025")
	opts := DailyOptions{CarryOver: true}

	sec, created := EnsureDaily(doc, today, opts)
	require.True(t, created)
	require.Len(t, sec.Tasks, 1)

	again, createdAgain := EnsureDaily(doc, today, opts)
	assert.False(t, createdAgain)
	assert.Same(t, sec, again)
	assert.Len(t, again.Tasks, 1, "second run must not duplicate entries")

	daily := doc.Section(SectionDaily)
	assert.Len(t, daily.Children, 1)
}

func TestEnsureDailyOrdersRecurringNewestDueFirst(t *testing.T) {
	// Three recurring tasks with different due dates: the daily task
	// became due yesterday+1, the 3-day task on the 14th, the weekly
	// task on the 12th. Newest due date goes on top.
	doc := buildDoc(t, `# DAILY

# MAIN

## HOME

- [ ] #001 | oldest due | HOME | recur:7d @05-01-2025
- [ ] #002 | newest due | HOME | daily @14-01-2025
- [ ] #003 | middle due | HOME | recur:3d @11-01-2025
`)

	sec, created := EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{})
	require.True(t, created)
	require.Len(t, sec.Tasks, 3)

	assert.Equal(t, 2, sec.Tasks[0].ID) // due 15-01
	assert.Equal(t, 3, sec.Tasks[1].ID) // due 14-01
	assert.Equal(t, 1, sec.Tasks[2].ID) // due 12-01
}

func TestEnsureDailySkipsSnoozedAndNotDue(t *testing.T) {
	doc := buildDoc(t, `# DAILY

# MAIN

## HOME

- [ ] #001 | snoozed | HOME | daily snooze:20-01-2025
- [ ] #002 | not due yet | HOME | recur:7d @12-01-2025
- [ ] #003 | due | HOME | daily @14-01-2025
`)

	sec, _ := EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{})
	require.Len(t, sec.Tasks, 1)
	assert.Equal(t, 3, sec.Tasks[0].ID)
}

func TestEnsureDailyCarriesOverUnfinished(t *testing.T) {
	doc := buildDoc(t, `# DAILY

## 14-01-2025

- [x] #010 | finished yesterday | WORK |
- [~] #011 | half done | WORK | @14-01-2025
- [ ] #012 | untouched | WORK |
- [ ] #013 | ad-hoc errand |  |

# MAIN

## WORK

- [ ] #011 | half done | WORK | @14-01-2025
- [ ] #012 | untouched | WORK |
`)

	sec, created := EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{CarryOver: true})
	require.True(t, created)
	require.Len(t, sec.Tasks, 3, "done entries are not carried")

	ids := []int{sec.Tasks[0].ID, sec.Tasks[1].ID, sec.Tasks[2].ID}
	assert.Equal(t, []int{11, 12, 13}, ids, "carried entries keep their relative order")

	for _, entry := range sec.Tasks {
		assert.Equal(t, NotStarted, entry.Status, "carried entries reset to not started")
		assert.Equal(t, mustParse("14-01-2025"), entry.Appeared, "carried entries keep their first appearance day")
	}

	// The in-progress entry keeps its activity date.
	assert.Equal(t, mustParse("14-01-2025"), sec.Tasks[0].LastActivity)
}

func TestEnsureDailyRecurringWinsOverCarryOver(t *testing.T) {
	doc := buildDoc(t, `# DAILY

## 14-01-2025

- [ ] #007 | water plants | HOME |

# MAIN

## HOME

- [ ] #007 | water plants | HOME | daily @14-01-2025
`)

	sec, _ := EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{CarryOver: true})
	require.Len(t, sec.Tasks, 1, "a fresh recurring instance suppresses the carried copy")
	assert.Equal(t, 7, sec.Tasks[0].ID)
	assert.Equal(t, mustParse("15-01-2025"), sec.Tasks[0].Appeared, "fresh instances appear today")
}

func TestEnsureDailyDropsNotDueRecurringCarryOver(t *testing.T) {
	// 15-01-2025 is a Wednesday. The weekly:fri task appeared yesterday
	// and was left unfinished, but its rule is not due again until
	// Friday, so it does not linger in today's section.
	doc := buildDoc(t, `# DAILY

## 14-01-2025

- [ ] #001 | weekly review | WORK |
- [ ] #002 | untouched | WORK |

# MAIN

## WORK

- [ ] #001 | weekly review | WORK | weekly:fri @14-01-2025
- [ ] #002 | untouched | WORK |
`)

	sec, _ := EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{CarryOver: true})
	require.Len(t, sec.Tasks, 1)
	assert.Equal(t, 2, sec.Tasks[0].ID)
}

func TestEnsureDailyNewSectionGoesOnTop(t *testing.T) {
	doc := buildDoc(t, `# DAILY

## 14-01-2025

# MAIN
`)

	EnsureDaily(doc, mustParse("15-01-2025"), DailyOptions{})

	daily := doc.Section(SectionDaily)
	require.Len(t, daily.Children, 2)
	assert.Equal(t, "15-01-2025", daily.Children[0].Name)
	assert.Equal(t, "14-01-2025", daily.Children[1].Name)
}

func TestPullCopiesMainTaskIntoToday(t *testing.T) {
	doc := buildDoc(t, `# DAILY

# MAIN

## WORK

- [ ] #023 | write chapter 3 | WORK | @10-01-2025
`)

	today := mustParse("15-01-2025")

	entry, err := Pull(doc, 23, today, DailyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "write chapter 3", entry.Text)
	assert.Equal(t, "WORK", entry.Origin)
	assert.Equal(t, mustParse("10-01-2025"), entry.LastActivity, "pulling preserves the main activity date")
	assert.Equal(t, today, entry.Appeared)

	// Pulling again returns the same entry.
	again, err := Pull(doc, 23, today, DailyOptions{})
	require.NoError(t, err)
	assert.Same(t, entry, again)

	_, err = Pull(doc, 999, today, DailyOptions{})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestPullGoesOnTopOfToday(t *testing.T) {
	doc := buildDoc(t, `# DAILY

# MAIN

## HOME

- [ ] #007 | water plants | HOME | daily @14-01-2025

## WORK

- [ ] #023 | write chapter 3 | WORK | @10-01-2025
`)

	today := mustParse("15-01-2025")

	// The fresh section already holds the due recurring task.
	sec, created := EnsureDaily(doc, today, DailyOptions{})
	require.True(t, created)
	require.Len(t, sec.Tasks, 1)
	require.Equal(t, 7, sec.Tasks[0].ID)

	_, err := Pull(doc, 23, today, DailyOptions{})
	require.NoError(t, err)

	require.Len(t, sec.Tasks, 2)
	assert.Equal(t, 23, sec.Tasks[0].ID, "the newest insertion goes on top")
	assert.Equal(t, 7, sec.Tasks[1].ID)
}
