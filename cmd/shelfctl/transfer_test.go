package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/littleshelf/littleshelf/pkg/config"
	"github.com/littleshelf/littleshelf/pkg/database"
	"github.com/littleshelf/littleshelf/pkg/migrations"
	"github.com/littleshelf/littleshelf/pkg/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T) *transfer {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return newTransfer(db)
}

const membersCSV = `First Name,Last Name,Last Name Initial,City,Neighborhood,Library Card Number
Dana,Rivera,R.,Oakland,Temescal,3
Lee,Park,,Oakland,,5
,Nobody,,,,6
Sam,,,,,7
`

const inventoryCSV = `ISBN,Cover,Title,Authors,Reading Level,Location,Publishers,Pages,Genres,Language,Notes,RequestedBy,Description
111,"=IMAGE(""https://covers.example.com/111.jpg"")",The Hobbit,J.R.R. Tolkien,,Dana,,310,,en,,,
222,,Matilda,Roald Dahl,,Library,,,,,,Lee,
`

func TestImportMembers(t *testing.T) {
	ctx := context.Background()
	tr := newTestTransfer(t)

	c, err := tr.importMembers(ctx, strings.NewReader(membersCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Imported)
	assert.Equal(t, 2, c.Skipped)

	all, err := tr.memberService.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 3, all[0].CardNumber)
	assert.Equal(t, 5, all[1].CardNumber)
	assert.Equal(t, "P.", all[1].LastNameInitial)

	// Imported members get a journal.
	entries, err := tr.journalService.GetJournal(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)

	c, err = tr.importMembers(ctx, strings.NewReader(membersCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Imported)
	assert.Equal(t, 4, c.Skipped)
}

func TestImportInventory_LinksHolders(t *testing.T) {
	ctx := context.Background()
	tr := newTestTransfer(t)

	_, err := tr.importMembers(ctx, strings.NewReader(membersCSV))
	require.NoError(t, err)

	c, err := tr.importInventory(ctx, strings.NewReader(inventoryCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Imported)

	book, err := tr.bookService.RetrieveBook(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "https://covers.example.com/111.jpg", book.Cover)
	require.NotNil(t, book.HolderCardNumber)
	assert.Equal(t, 3, *book.HolderCardNumber)

	book, err = tr.bookService.RetrieveBook(ctx, "222")
	require.NoError(t, err)
	assert.Nil(t, book.HolderCardNumber)
	assert.Equal(t, "Lee", book.RequestedBy)

	// Importing adds no journal entries.
	entries, err := tr.journalService.GetJournal(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)

	c, err = tr.importInventory(ctx, strings.NewReader(inventoryCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Imported)
	assert.Equal(t, 2, c.Skipped)
}

func TestImportJournal(t *testing.T) {
	ctx := context.Background()
	tr := newTestTransfer(t)

	_, err := tr.importMembers(ctx, strings.NewReader(membersCSV))
	require.NoError(t, err)

	journalCSV := `ISBN,Title,Date Added,Notes,Finished,Order
222,Matilda,3/4/2025,loved it,TRUE,2
111,The Hobbit,3/1/2025,,FALSE,1
,orphan,,,,
`
	c, err := tr.importJournal(ctx, 3, strings.NewReader(journalCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Imported)
	assert.Equal(t, 1, c.Skipped)

	entries, err := tr.journalService.GetJournal(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "111", entries[0].ISBN)
	assert.Equal(t, "222", entries[1].ISBN)
	assert.True(t, entries[1].Finished)
	assert.Equal(t, "3/4/2025", entries[1].DateAdded)
	assert.Equal(t, "loved it", entries[1].Notes)

	c, err = tr.importJournal(ctx, 3, strings.NewReader(journalCSV))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Imported)
	assert.Equal(t, 3, c.Skipped)
}

func TestImportJournal_UnknownMember(t *testing.T) {
	tr := newTestTransfer(t)

	_, err := tr.importJournal(context.Background(), 42, strings.NewReader("ISBN\n111\n"))
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	tr := newTestTransfer(t)

	_, err := tr.importMembers(ctx, strings.NewReader(membersCSV))
	require.NoError(t, err)
	_, err = tr.importInventory(ctx, strings.NewReader(inventoryCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.exportMembers(ctx, &buf))
	members, err := sheets.ReadCSV(&buf, sheets.Locations)
	require.NoError(t, err)
	assert.Equal(t, sheets.LocationsHeaders, members.Headers)
	require.Len(t, members.Records, 2)
	assert.Equal(t, "Dana", members.Records[0]["First Name"])
	assert.Equal(t, "3", members.Records[0]["Library Card Number"])

	buf.Reset()
	require.NoError(t, tr.exportInventory(ctx, &buf))
	inventory, err := sheets.ReadCSV(&buf, sheets.Inventory)
	require.NoError(t, err)
	require.Len(t, inventory.Records, 2)
	assert.Equal(t, "111", inventory.Records[0]["ISBN"])
	assert.Equal(t, `=IMAGE("https://covers.example.com/111.jpg")`, inventory.Records[0]["Cover"])

	buf.Reset()
	require.NoError(t, tr.exportJournal(ctx, 3, &buf))
	journal, err := sheets.ReadCSV(&buf, sheets.JournalName(3))
	require.NoError(t, err)
	assert.Equal(t, sheets.JournalHeaders, journal.Headers)
	assert.Empty(t, journal.Records)
}
