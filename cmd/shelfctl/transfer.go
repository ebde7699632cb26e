package main

import (
	"context"
	"io"

	"github.com/littleshelf/littleshelf/pkg/books"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/journals"
	"github.com/littleshelf/littleshelf/pkg/members"
	"github.com/littleshelf/littleshelf/pkg/sheets"
	"github.com/littleshelf/littleshelf/pkg/validations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// transfer moves tabs of the legacy spreadsheet in and out of the database
// as CSV.
type transfer struct {
	bookService       *books.Service
	journalService    *journals.Service
	memberService     *members.Service
	validationService *validations.Service
}

type counts struct {
	Imported int
	Skipped  int
}

func newTransfer(db *bun.DB) *transfer {
	journalService := journals.NewService(db)
	return &transfer{
		// Imports never record journal entries for books, so there's no
		// recorder.
		bookService:       books.NewService(db, nil),
		journalService:    journalService,
		memberService:     members.NewService(db, journalService),
		validationService: validations.NewService(db),
	}
}

func (tr *transfer) importInventory(ctx context.Context, r io.Reader) (counts, error) {
	var c counts
	table, err := sheets.ReadCSV(r, sheets.Inventory)
	if err != nil {
		return c, err
	}

	for _, rec := range table.Records {
		inserted, err := tr.bookService.ImportBook(ctx, sheets.BookFromRecord(rec))
		if err != nil {
			return c, errors.Wrapf(err, "failed to import isbn %s", rec.Get("ISBN", "isbn"))
		}
		if inserted {
			c.Imported++
		} else {
			c.Skipped++
		}
	}
	return c, nil
}

func (tr *transfer) importMembers(ctx context.Context, r io.Reader) (counts, error) {
	log := logger.FromContext(ctx)

	var c counts
	table, err := sheets.ReadCSV(r, sheets.Locations)
	if err != nil {
		return c, err
	}

	for _, rec := range table.Records {
		member, err := sheets.MemberFromRecord(rec)
		if err != nil {
			log.Warn("skipping member row", logger.Data{"error": err.Error()})
			c.Skipped++
			continue
		}
		inserted, err := tr.memberService.ImportMember(ctx, member)
		if errcodes.IsCode(err, "validation_error") {
			log.Warn("skipping member row", logger.Data{"card_number": member.CardNumber, "error": err.Error()})
			c.Skipped++
			continue
		}
		if err != nil {
			return c, errors.Wrapf(err, "failed to import card %d", member.CardNumber)
		}
		if inserted {
			c.Imported++
		} else {
			c.Skipped++
		}
	}
	return c, nil
}

func (tr *transfer) importJournal(ctx context.Context, cardNumber int, r io.Reader) (counts, error) {
	var c counts
	table, err := sheets.ReadCSV(r, sheets.JournalName(cardNumber))
	if err != nil {
		return c, err
	}

	if err := tr.journalService.ProvisionJournal(ctx, cardNumber); err != nil {
		return c, errors.Wrapf(err, "failed to provision journal for card %d", cardNumber)
	}

	existing, err := tr.journalService.GetJournal(ctx, cardNumber)
	if err != nil {
		return c, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.ISBN] = struct{}{}
	}

	for _, rec := range table.Records {
		entry, err := sheets.EntryFromRecord(cardNumber, rec)
		if err != nil {
			c.Skipped++
			continue
		}
		if _, ok := seen[entry.ISBN]; ok {
			c.Skipped++
			continue
		}
		_, err = tr.journalService.AddEntry(ctx, journals.AddEntryOptions{
			CardNumber: cardNumber,
			ISBN:       entry.ISBN,
			Title:      entry.Title,
			Notes:      entry.Notes,
			DateAdded:  entry.DateAdded,
			Finished:   entry.Finished,
			SortOrder:  entry.SortOrder,
		})
		if err != nil {
			return c, errors.Wrapf(err, "failed to import journal entry %s", entry.ISBN)
		}
		seen[entry.ISBN] = struct{}{}
		c.Imported++
	}
	return c, nil
}

func (tr *transfer) exportInventory(ctx context.Context, w io.Writer) error {
	all, err := tr.bookService.ListBooks(ctx)
	if err != nil {
		return err
	}
	return sheets.WriteCSV(w, sheets.InventoryTable(all))
}

func (tr *transfer) exportMembers(ctx context.Context, w io.Writer) error {
	all, err := tr.memberService.ListMembers(ctx)
	if err != nil {
		return err
	}
	return sheets.WriteCSV(w, sheets.MembersTable(all))
}

func (tr *transfer) exportJournal(ctx context.Context, cardNumber int, w io.Writer) error {
	entries, err := tr.journalService.GetJournal(ctx, cardNumber)
	if err != nil {
		return err
	}
	return sheets.WriteCSV(w, sheets.JournalTable(cardNumber, entries))
}
