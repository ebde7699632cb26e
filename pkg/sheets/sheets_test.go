package sheets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverFormula(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `=IMAGE("http://img/a.jpg")`, CoverFormula("http://img/a.jpg"))
	assert.Equal(t, `=IMAGE("http://img/a%22b.jpg")`, CoverFormula(`http://img/a"b.jpg`))
	assert.Equal(t, "", CoverFormula(""))
	assert.Equal(t, "", CoverFormula("   "))
}

func TestCoverURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://img/a.jpg", CoverURL(`=IMAGE("http://img/a.jpg")`))
	assert.Equal(t, "http://img/a.jpg", CoverURL(`=IMAGE("http://img/a.jpg", 1)`))
	assert.Equal(t, "http://img/plain.jpg", CoverURL(" http://img/plain.jpg "))
	assert.Equal(t, "", CoverURL(""))
	assert.Equal(t, "http://img/a.jpg", CoverURL(CoverFormula("http://img/a.jpg")))
}

func TestParseTable_SkipsBlankRowsAndPads(t *testing.T) {
	t.Parallel()

	table := ParseTable(Locations, [][]string{
		{"First Name", "Last Name", "Library Card Number"},
		{"Ann", "Lee", "1"},
		{"", " ", ""},
		{"Bo"},
	})

	require.Len(t, table.Records, 2)
	assert.Equal(t, "Ann", table.Records[0]["First Name"])
	assert.Equal(t, "Bo", table.Records[1]["First Name"])
	assert.Equal(t, "", table.Records[1]["Library Card Number"])
}

func TestParseTable_DropsInventoryRowsWithoutISBN(t *testing.T) {
	t.Parallel()

	table := ParseTable(Inventory, [][]string{
		{"ISBN", "Title"},
		{"111", "Kept"},
		{"", "Orphan title"},
		{"  ", "Whitespace ISBN"},
	})

	require.Len(t, table.Records, 1)
	assert.Equal(t, "Kept", table.Records[0]["Title"])
}

func TestParseTable_LowercaseISBNHeader(t *testing.T) {
	t.Parallel()

	table := ParseTable(Inventory, [][]string{
		{"isbn", "title"},
		{"111", "Kept"},
		{"", "Dropped"},
	})

	require.Len(t, table.Records, 1)
	assert.Equal(t, "111", table.Records[0].Get("ISBN", "isbn"))
}

func TestParseTable_Empty(t *testing.T) {
	t.Parallel()

	table := ParseTable(Inventory, nil)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Records)
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	in := "ISBN,Title,Authors\n111,Dune,Frank Herbert\n,,\n222,Emma\n"
	table, err := ReadCSV(strings.NewReader(in), Inventory)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Emma", table.Records[1]["Title"])
	assert.Equal(t, "", table.Records[1]["Authors"])
}

func TestReadCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	table, err := ReadCSV(strings.NewReader(""), Locations)
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

func TestBookFromRecord_Aliases(t *testing.T) {
	t.Parallel()

	book := BookFromRecord(Record{
		"isbn":        "111",
		"title":       "Dune",
		"author":      "Frank Herbert",
		"level":       "Adult",
		"Location":    "Ann",
		"requestedBy": "Bo",
		"Cover":       `=IMAGE("http://img/dune.jpg")`,
	})

	assert.Equal(t, "111", book.ISBN)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Authors)
	assert.Equal(t, "Adult", book.ReadingLevel)
	assert.Equal(t, "Ann", book.Location)
	assert.Equal(t, "Bo", book.RequestedBy)
	assert.Equal(t, "http://img/dune.jpg", book.Cover)
	assert.Equal(t, `=IMAGE("http://img/dune.jpg")`, book.CoverFormula)
}

func TestInventoryTable_WritesCoverFormula(t *testing.T) {
	t.Parallel()

	table := InventoryTable([]*models.Book{{
		ISBN:     "111",
		Title:    "Dune",
		Cover:    "http://img/dune.jpg",
		Location: "Ann",
	}})

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, InventoryHeaders, rows[0])
	assert.Equal(t, "111", rows[1][0])
	assert.Equal(t, `=IMAGE("http://img/dune.jpg")`, rows[1][1])
	assert.Equal(t, "Ann", rows[1][5])
}

func TestMemberFromRecord(t *testing.T) {
	t.Parallel()

	member, err := MemberFromRecord(Record{
		"First Name":          "Ann",
		"Last Name":           "Lee",
		"Last Name Initial":   "L.",
		"City":                "Oakland",
		"Library Card Number": "7",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, member.CardNumber)
	assert.Equal(t, "Ann", member.FirstName)
	assert.Equal(t, "L.", member.LastNameInitial)
	assert.Equal(t, "Oakland", member.City)
}

func TestMemberFromRecord_Invalid(t *testing.T) {
	t.Parallel()

	_, err := MemberFromRecord(Record{"Library Card Number": "1"})
	assert.Error(t, err)

	_, err = MemberFromRecord(Record{"First Name": "Ann", "Library Card Number": "abc"})
	assert.Error(t, err)

	_, err = MemberFromRecord(Record{"First Name": "Ann", "Library Card Number": "0"})
	assert.Error(t, err)
}

func TestJournalTable_RoundTrip(t *testing.T) {
	t.Parallel()

	entries := []*models.JournalEntry{
		{ISBN: "111", Title: "Dune", DateAdded: "3/4/2026", Notes: "great", Finished: true, SortOrder: 1},
		{ISBN: "222", Title: "Emma", DateAdded: "3/5/2026", SortOrder: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, JournalTable(5, entries)))

	table, err := ReadCSV(&buf, JournalName(5))
	require.NoError(t, err)
	assert.Equal(t, "Journal-5", table.Name)
	require.Len(t, table.Records, 2)

	first, err := EntryFromRecord(5, table.Records[0])
	require.NoError(t, err)
	assert.Equal(t, 5, first.CardNumber)
	assert.Equal(t, "Dune", first.Title)
	assert.Equal(t, "3/4/2026", first.DateAdded)
	assert.True(t, first.Finished)
	assert.Equal(t, 1, first.SortOrder)

	second, err := EntryFromRecord(5, table.Records[1])
	require.NoError(t, err)
	assert.False(t, second.Finished)
	assert.Equal(t, 2, second.SortOrder)
}

func TestEntryFromRecord_RequiresISBN(t *testing.T) {
	t.Parallel()

	_, err := EntryFromRecord(1, Record{"Title": "Dune"})
	assert.Error(t, err)
}
