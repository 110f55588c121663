package cli

import (
	"strings"
	"testing"
)

func TestInitCreatesSkeleton(t *testing.T) {
	c := NewCLI(t)

	stdout := c.MustRun("init")
	AssertContains(t, stdout, "initialized")

	content := c.ReadTaskFile()
	AssertContains(t, content, "# DAILY")
	AssertContains(t, content, "# MAIN")
	AssertContains(t, content, "# ARCHIVE")
}

func TestAddPrintsID(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	id := c.MustRun("add", "write chapter 3", "-s", "work")
	if id != "#001" {
		t.Fatalf("expected #001, got %q", id)
	}

	content := c.ReadTaskFile()
	AssertContains(t, content, "## WORK")
	AssertContains(t, content, "- [ ] #001 | write chapter 3 | WORK | @15-01-2025 added:15-01-2025")
}

func TestAddRequiresSection(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	stderr := c.MustFail("add", "some task")
	AssertContains(t, stderr, "section is required")
}

func TestAddRejectsInvalidInlineRule(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	stderr := c.MustFail("add", "water plants (recur:nope)", "-s", "HOME")
	AssertContains(t, stderr, "invalid recurrence rule")
}

func TestAddRejectsGrammarCharacters(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	stderr := c.MustFail("add", "bad | text", "-s", "HOME")
	AssertContains(t, stderr, "invalid task text")
}

func TestDailySyncRoundTrip(t *testing.T) {
	c := NewCLI(t)
	c.Today = "15-01-2025"
	c.MustRun("init")
	c.MustRun("add", "water plants (daily)", "-s", "HOME")
	c.MustRun("add", "write chapter 3", "-s", "WORK")

	// Next morning: the recurring task is due.
	c.Today = "16-01-2025"

	stdout := c.MustRun("daily")
	AssertContains(t, stdout, "created daily section for 16-01-2025")
	AssertContains(t, stdout, "#001 water plants")
	AssertNotContains(t, stdout, "#002", "non-recurring tasks are not pulled in automatically")

	// Running daily again must not duplicate anything.
	stdout = c.MustRun("daily")
	AssertContains(t, stdout, "already exists")
	if n := strings.Count(stdout, "#001"); n != 1 {
		t.Fatalf("expected one entry for #001, found %d\n%s", n, stdout)
	}

	c.MustRun("done", "1")
	c.MustRun("done", "2") // pulls #002 into today first

	stdout = c.MustRun("sync")
	AssertContains(t, stdout, "synced 16-01-2025: 2 completed, 0 progressed")

	content := c.ReadTaskFile()

	// The recurring task records the occurrence but stays open.
	AssertContains(t, content, "- [ ] #001 | water plants | HOME | daily @16-01-2025")

	// The one-off task completes for good.
	AssertContains(t, content, "- [x] #002 | write chapter 3 | WORK | @16-01-2025")
}

func TestCarryOverAcrossDays(t *testing.T) {
	c := NewCLI(t)
	c.Today = "15-01-2025"
	c.MustRun("init")
	c.MustRun("add", "lingering task", "-s", "WORK")

	c.MustRun("pass", "1") // puts it in the 15th's section, in progress
	c.MustRun("sync")

	c.Today = "16-01-2025"

	stdout := c.MustRun("daily")
	AssertContains(t, stdout, "#001 lingering task")

	content := c.ReadTaskFile()
	AssertContains(t, content, "## 16-01-2025")
	AssertContains(t, content, "^15-01-2025", "carried entries remember their first appearance")
}

func TestCarryOverCanBeDisabled(t *testing.T) {
	c := NewCLI(t)
	c.WriteProjectConfig(`{"carry_over": false}`)
	c.Today = "15-01-2025"
	c.MustRun("init")
	c.MustRun("add", "lingering task", "-s", "WORK")
	c.MustRun("pass", "1")

	c.Today = "16-01-2025"

	stdout := c.MustRun("daily")
	AssertNotContains(t, stdout, "lingering task")
}

func TestSyncWarnsAboutMissingMainTask(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	// A daily entry whose main task no longer exists.
	c.WriteTaskFile(`# DAILY

## 15-01-2025

- [x] #001 | doomed task | WORK |

# MAIN

# ARCHIVE
`)

	stdout, stderr, code := c.Run("sync")
	if code != 1 {
		t.Fatalf("expected exit 1 for a sync with skipped entries, got %d\nstderr: %s", code, stderr)
	}

	AssertContains(t, stderr, "warning:")
	AssertContains(t, stderr, "#001")
	AssertContains(t, stdout, "synced 15-01-2025: 0 completed, 0 progressed")
}

func TestDoneUnknownID(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")

	stderr := c.MustFail("done", "42")
	AssertContains(t, stderr, "task not found")
}

func TestUndoneResetsDailyEntry(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "flip flop", "-s", "WORK")
	c.MustRun("done", "1")
	c.MustRun("undone", "1")

	content := c.ReadTaskFile()
	AssertContains(t, content, "- [ ] #001 | flip flop | WORK")
	AssertNotContains(t, content, "- [x] #001")
}

func TestSnoozeHidesFromDaily(t *testing.T) {
	c := NewCLI(t)
	c.Today = "15-01-2025"
	c.MustRun("init")
	c.MustRun("add", "weekly review (daily)", "-s", "WORK")
	c.MustRun("snooze", "1", "7")

	content := c.ReadTaskFile()
	AssertContains(t, content, "snooze:22-01-2025")

	c.Today = "16-01-2025"

	stdout := c.MustRun("daily")
	AssertNotContains(t, stdout, "weekly review")
}

func TestRecurSetAndClear(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "stretch", "-s", "HEALTH")

	c.MustRun("recur", "1", "weekly:mon,fri")
	AssertContains(t, c.ReadTaskFile(), "| weekly:mon,fri")

	c.MustRun("recur", "1", "none")
	AssertNotContains(t, c.ReadTaskFile(), "weekly:mon,fri")

	stderr := c.MustFail("recur", "1", "fortnightly")
	AssertContains(t, stderr, "invalid recurrence rule")
}

func TestMoveRewritesOrigin(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "reorganize shelf", "-s", "WORK")
	c.MustRun("move", "1", "home")

	content := c.ReadTaskFile()
	AssertContains(t, content, "## HOME")
	AssertContains(t, content, "- [ ] #001 | reorganize shelf | HOME")
}

func TestDeleteAndPurge(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "to delete", "-s", "WORK")
	c.MustRun("add", "to finish", "-s", "WORK")

	c.MustRun("delete", "1")
	AssertNotContains(t, c.ReadTaskFile(), "to delete")

	c.MustRun("done", "2")
	c.MustRun("sync")

	stdout := c.MustRun("purge")
	AssertContains(t, stdout, "purged 1 tasks")

	// The daily record of the completion stays; only MAIN is purged.
	content := c.ReadTaskFile()
	if main := content[strings.Index(content, "# MAIN"):]; strings.Contains(main, "#002") {
		t.Fatalf("expected #002 gone from the main list:\n%s", main)
	}
}

func TestUpDownReorder(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "first", "-s", "WORK")
	c.MustRun("add", "second", "-s", "WORK")

	c.MustRun("up", "2")

	content := c.ReadTaskFile()
	if strings.Index(content, "#002") > strings.Index(content, "#001") {
		t.Fatalf("expected #002 above #001 after up:\n%s", content)
	}

	c.MustRun("down", "2")

	content = c.ReadTaskFile()
	if strings.Index(content, "#001") > strings.Index(content, "#002") {
		t.Fatalf("expected #001 above #002 after down:\n%s", content)
	}
}

func TestArchiveMovesOldSections(t *testing.T) {
	c := NewCLI(t)
	c.Today = "15-01-2025"
	c.WriteTaskFile(`# DAILY

## 14-01-2025

- [x] #001 | recent | WORK |

## 20-12-2024

- [x] #002 | ancient | WORK |

# MAIN

# ARCHIVE
`)

	stdout := c.MustRun("archive")
	AssertContains(t, stdout, "archived 1 daily sections")

	content := c.ReadTaskFile()
	archiveIdx := strings.Index(content, "# ARCHIVE")
	ancientIdx := strings.Index(content, "## 20-12-2024")

	if ancientIdx < archiveIdx {
		t.Fatalf("expected the old section under ARCHIVE:\n%s", content)
	}

	AssertContains(t, content, "## 14-01-2025")
}

func TestStaleAndAgeRankings(t *testing.T) {
	c := NewCLI(t)
	c.Today = "15-01-2025"
	c.WriteTaskFile(`# DAILY

# MAIN

## WORK

- [ ] #001 | very stale | WORK | @01-01-2025 added:01-12-2024
- [ ] #002 | fresh | WORK | @14-01-2025 added:14-01-2025
- [ ] #003 | recurring | WORK | daily @01-01-2025

# ARCHIVE
`)

	stdout := c.MustRun("stale")
	AssertContains(t, stdout, "#001 very stale")
	AssertNotContains(t, stdout, "#003", "recurring tasks are never stale")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.Contains(lines[0], "#001") {
		t.Fatalf("expected #001 on top:\n%s", stdout)
	}

	stdout = c.MustRun("stale", "-n", "1")
	if got := len(strings.Split(strings.TrimSpace(stdout), "\n")); got != 1 {
		t.Fatalf("expected one row with -n 1, got %d:\n%s", got, stdout)
	}

	stdout = c.MustRun("age")
	AssertContains(t, stdout, "#001 very stale")
	AssertNotContains(t, stdout, "#003")
}

func TestListGroupsBySection(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "task a", "-s", "WORK")
	c.MustRun("add", "task b", "-s", "HOME")

	stdout := c.MustRun("list")
	AssertContains(t, stdout, "WORK")
	AssertContains(t, stdout, "HOME")
	AssertContains(t, stdout, "#001 task a")

	stdout = c.MustRun("list", "work")
	AssertContains(t, stdout, "task a")
	AssertNotContains(t, stdout, "task b")
}

func TestShowTaskDetail(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "inspect me (weekly)", "-s", "WORK")

	stdout := c.MustRun("show", "1")
	AssertContains(t, stdout, "#001 inspect me")
	AssertContains(t, stdout, "not_started")
	AssertContains(t, stdout, "weekly")
	AssertContains(t, stdout, "15-01-2025")
}

func TestSectionsOverview(t *testing.T) {
	c := NewCLI(t)
	c.MustRun("init")
	c.MustRun("add", "a", "-s", "WORK")
	c.MustRun("add", "b", "-s", "WORK:BOOK")

	stdout := c.MustRun("sections")
	AssertContains(t, stdout, "WORK (1)")
	AssertContains(t, stdout, "BOOK (1)")
}
