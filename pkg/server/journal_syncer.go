package server

import (
	"context"

	"github.com/littleshelf/littleshelf/pkg/books"
	"github.com/littleshelf/littleshelf/pkg/journals"
	"github.com/littleshelf/littleshelf/pkg/members"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// journalSyncer implements books.JournalRecorder and members.JournalProvisioner.
// It bridges the books and members packages to the journals package.
type journalSyncer struct {
	journalService *journals.Service
}

var (
	_ books.JournalRecorder      = (*journalSyncer)(nil)
	_ members.JournalProvisioner = (*journalSyncer)(nil)
)

func newJournalSyncer(db *bun.DB) *journalSyncer {
	return &journalSyncer{
		journalService: journals.NewService(db),
	}
}

// RecordBook adds the book to the member's journal unless it's already there.
func (js *journalSyncer) RecordBook(ctx context.Context, cardNumber int, isbn, title, notes string) error {
	_, err := js.journalService.AddEntry(ctx, journals.AddEntryOptions{
		CardNumber: cardNumber,
		ISBN:       isbn,
		Title:      title,
		Notes:      notes,
	})
	if errors.Is(err, journals.ErrJournalNotProvisioned) {
		return books.ErrNoJournal
	}
	return err
}

// ProvisionJournal creates the member's journal if it doesn't exist.
func (js *journalSyncer) ProvisionJournal(ctx context.Context, cardNumber int) error {
	return js.journalService.ProvisionJournal(ctx, cardNumber)
}
