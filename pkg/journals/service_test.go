package journals

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/migrations"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newProvisionedService(t *testing.T, cards ...int) *Service {
	t.Helper()

	svc := NewService(setupTestDB(t))
	for _, card := range cards {
		require.NoError(t, svc.ProvisionJournal(context.Background(), card))
	}
	return svc
}

func TestProvisionJournal_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)
	ctx := context.Background()

	require.NoError(t, svc.ProvisionJournal(ctx, 1))

	count, err := svc.db.NewSelect().Model((*models.Journal)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddEntry(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 3)
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, AddEntryOptions{
		CardNumber: 3,
		ISBN:       "9780143127741",
		Title:      "Example",
		Notes:      "from the shelf",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, time.Now().Format(models.JournalDateFormat), entry.DateAdded)
	assert.Equal(t, 1, entry.SortOrder)
	assert.False(t, entry.Finished)

	entries, err := svc.GetJournal(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "9780143127741", entries[0].ISBN)
	assert.Equal(t, "Example", entries[0].Title)
	assert.Equal(t, "from the shelf", entries[0].Notes)
}

func TestAddEntry_IdempotentPerISBN(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)
	ctx := context.Background()

	first, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 1, ISBN: "111", Title: "Dune"})
	require.NoError(t, err)

	second, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 1, ISBN: "111", Title: "Dune (retitled)"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Dune", second.Title)

	entries, err := svc.GetJournal(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAddEntry_NotProvisioned(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t)

	_, err := svc.AddEntry(context.Background(), AddEntryOptions{CardNumber: 9, ISBN: "111"})
	assert.ErrorIs(t, err, ErrJournalNotProvisioned)
}

func TestAddEntry_AppendsInInsertionOrder(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1, 2)
	ctx := context.Background()

	for _, isbn := range []string{"111", "222", "333"} {
		_, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 1, ISBN: isbn})
		require.NoError(t, err)
	}
	other, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 2, ISBN: "111"})
	require.NoError(t, err)
	assert.Equal(t, 1, other.SortOrder)

	entries, err := svc.GetJournal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "111", entries[0].ISBN)
	assert.Equal(t, "222", entries[1].ISBN)
	assert.Equal(t, "333", entries[2].ISBN)
	assert.Equal(t, 3, entries[2].SortOrder)
}

func TestAddEntry_KeepsImportedFields(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)

	entry, err := svc.AddEntry(context.Background(), AddEntryOptions{
		CardNumber: 1,
		ISBN:       "111",
		DateAdded:  "1/2/2024",
		Finished:   true,
		SortOrder:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, "1/2/2024", entry.DateAdded)
	assert.True(t, entry.Finished)
	assert.Equal(t, 7, entry.SortOrder)
}

func TestGetJournal_Missing(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t)

	entries, err := svc.GetJournal(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestUpdateNotesAndFinished(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 1, ISBN: "111", Title: "Dune"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateNotes(ctx, 1, "111", "loved it"))
	require.NoError(t, svc.SetFinished(ctx, 1, "111", true))

	entries, err := svc.GetJournal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "loved it", entries[0].Notes)
	assert.True(t, entries[0].Finished)
	assert.Equal(t, "Dune", entries[0].Title)

	require.NoError(t, svc.SetFinished(ctx, 1, "111", false))
	entries, err = svc.GetJournal(ctx, 1)
	require.NoError(t, err)
	assert.False(t, entries[0].Finished)
}

func TestUpdateNotes_MissingJournalIsNoop(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t)

	assert.NoError(t, svc.UpdateNotes(context.Background(), 5, "111", "notes"))
	assert.NoError(t, svc.SetFinished(context.Background(), 5, "111", true))
}

func TestUpdateNotes_MissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)

	err := svc.UpdateNotes(context.Background(), 1, "999", "notes")
	assert.ErrorIs(t, err, errcodes.NotFound("Journal entry"))

	err = svc.SetFinished(context.Background(), 1, "999", true)
	assert.ErrorIs(t, err, errcodes.NotFound("Journal entry"))
}

func TestReorder(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t, 1)
	ctx := context.Background()

	for _, isbn := range []string{"111", "222", "333"} {
		_, err := svc.AddEntry(ctx, AddEntryOptions{CardNumber: 1, ISBN: isbn})
		require.NoError(t, err)
	}

	err := svc.Reorder(ctx, 1, []OrderUpdate{
		{ISBN: "333", Order: 1},
		{ISBN: "111", Order: 2},
		{ISBN: "222", Order: 2},
		{ISBN: "999", Order: 0},
	})
	require.NoError(t, err)

	entries, err := svc.GetJournal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "333", entries[0].ISBN)
	assert.Equal(t, "111", entries[1].ISBN)
	assert.Equal(t, "222", entries[2].ISBN)
}

func TestReorder_MissingJournalIsNoop(t *testing.T) {
	t.Parallel()

	svc := newProvisionedService(t)

	assert.NoError(t, svc.Reorder(context.Background(), 5, []OrderUpdate{{ISBN: "111", Order: 1}}))
}
