package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const archiveFile = `# DAILY

## 15-01-2025

- [ ] #001 | today | WORK |

## 08-01-2025

- [x] #002 | last week | WORK |

## 01-01-2025

- [x] #003 | new year | WORK |

# MAIN

# ARCHIVE
`

func TestArchiveOldMovesSectionsPastThreshold(t *testing.T) {
	doc := buildDoc(t, archiveFile)
	today := mustParse("15-01-2025")

	moved := ArchiveOld(doc, 7, today, ArchiveFull)
	assert.Equal(t, 1, moved)

	daily := doc.Section(SectionDaily)
	require.Len(t, daily.Children, 2)
	assert.Equal(t, "15-01-2025", daily.Children[0].Name)
	assert.Equal(t, "08-01-2025", daily.Children[1].Name, "exactly at the threshold stays")

	archive := doc.Section(SectionArchive)
	require.Len(t, archive.Children, 1)
	assert.Equal(t, "01-01-2025", archive.Children[0].Name)
	assert.Len(t, archive.Children[0].Tasks, 1, "full policy keeps the entries")
}

func TestArchiveHeadersPolicyDropsEntries(t *testing.T) {
	doc := buildDoc(t, archiveFile)

	moved := ArchiveOld(doc, 7, mustParse("15-01-2025"), ArchiveHeaders)
	assert.Equal(t, 1, moved)

	archive := doc.Section(SectionArchive)
	require.Len(t, archive.Children, 1)
	assert.Empty(t, archive.Children[0].Tasks)
}

func TestArchiveMergesExistingDate(t *testing.T) {
	doc := buildDoc(t, `# DAILY

## 01-01-2025

- [x] #003 | new year | WORK |

# ARCHIVE

## 01-01-2025

- [x] #002 | already archived | WORK |
`)

	moved := ArchiveOld(doc, 7, mustParse("15-01-2025"), ArchiveFull)
	assert.Equal(t, 1, moved)

	archive := doc.Section(SectionArchive)
	require.Len(t, archive.Children, 1)
	assert.Len(t, archive.Children[0].Tasks, 2)
}

func TestArchiveLeavesNonDateSectionsAlone(t *testing.T) {
	doc := buildDoc(t, `# DAILY

## SCRATCH

- [ ] #001 | notes | WORK |

# ARCHIVE
`)

	moved := ArchiveOld(doc, 7, mustParse("15-01-2025"), ArchiveFull)
	assert.Zero(t, moved)
	assert.NotNil(t, doc.Section(SectionDaily).Child("SCRATCH"))
}

func TestArchiveNothingToDo(t *testing.T) {
	doc := buildDoc(t, "# DAILY\n\n# MAIN\n")
	assert.Zero(t, ArchiveOld(doc, 7, mustParse("15-01-2025"), ArchiveFull))
}

func TestParseArchivePolicy(t *testing.T) {
	p, err := ParseArchivePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ArchiveFull, p)

	p, err = ParseArchivePolicy("headers")
	require.NoError(t, err)
	assert.Equal(t, ArchiveHeaders, p)

	_, err = ParseArchivePolicy("nope")
	assert.ErrorIs(t, err, ErrInvalidArchivePolicy)
}
