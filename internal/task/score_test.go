package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreFile = `# DAILY

# MAIN

## WORK

- [ ] #001 | very stale | WORK | @01-01-2025
- [ ] #002 | fresh | WORK | @14-01-2025
- [ ] #003 | recurring | WORK | daily @01-01-2025
- [x] #004 | already done | WORK | @01-01-2025 added:01-12-2024
- [ ] #005 | snoozed away | WORK | @01-01-2025 snooze:20-01-2025

## HOME

- [ ] #006 | mid stale | HOME | @10-01-2025
- [ ] #007 | weighted old | HOME | @14-01-2025 added:16-12-2024 scale:2
`

func TestRankStale(t *testing.T) {
	doc := buildDoc(t, scoreFile)
	today := mustParse("15-01-2025")

	rows := RankStale(doc, today, "", 0)
	require.Len(t, rows, 4)

	// Recurring (#003), done (#004) and snoozed (#005) are excluded.
	assert.Equal(t, 1, rows[0].Task.ID)
	assert.Equal(t, 14, rows[0].Days)
	assert.Equal(t, 6, rows[1].Task.ID)
	assert.Equal(t, 5, rows[1].Days)

	tail := []int{rows[2].Task.ID, rows[3].Task.ID}
	assert.ElementsMatch(t, []int{2, 7}, tail)
}

func TestRankStaleScopeAndLimit(t *testing.T) {
	doc := buildDoc(t, scoreFile)
	today := mustParse("15-01-2025")

	rows := RankStale(doc, today, "home", 0)
	require.Len(t, rows, 2, "scope matches case-insensitively")
	assert.Equal(t, 6, rows[0].Task.ID)

	rows = RankStale(doc, today, "", 1)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Task.ID)
}

func TestRankByAge(t *testing.T) {
	doc := buildDoc(t, scoreFile)
	today := mustParse("15-01-2025")

	rows := RankByAge(doc, today, "", 0, 1)

	// Only the recurring task is excluded; done tasks still age.
	ids := make(map[int]bool)
	for _, r := range rows {
		ids[r.Task.ID] = true
	}

	assert.False(t, ids[3], "recurring tasks do not age")
	assert.True(t, ids[4], "done tasks keep aging until purged")

	// #004: created 01-12-2024, 45 days old, scale 1.
	// #007: created 16-12-2024, 30 days old, scale 2 -> score 60.
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, 7, rows[0].Task.ID)
	assert.InDelta(t, 60, rows[0].Score, 1e-9)
	assert.Equal(t, 4, rows[1].Task.ID)
	assert.InDelta(t, 45, rows[1].Score, 1e-9)
}

func TestRankByAgeFallsBackToActivityDate(t *testing.T) {
	doc := buildDoc(t, `# MAIN

## WORK

- [ ] #001 | no creation date | WORK | @05-01-2025
`)

	rows := RankByAge(doc, mustParse("15-01-2025"), "", 0, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Days)
}

func TestRankByAgeDefaultScale(t *testing.T) {
	doc := buildDoc(t, `# MAIN

## WORK

- [ ] #001 | unweighted | WORK | added:05-01-2025
- [ ] #002 | weighted | WORK | added:05-01-2025 scale:0.5
`)

	rows := RankByAge(doc, mustParse("15-01-2025"), "", 0, 3)
	require.Len(t, rows, 2)

	// The configured default only applies where the task has no scale.
	assert.Equal(t, 1, rows[0].Task.ID)
	assert.InDelta(t, 30, rows[0].Score, 1e-9)
	assert.InDelta(t, 5, rows[1].Score, 1e-9)
}
