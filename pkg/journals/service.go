package journals

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrJournalNotProvisioned is returned when writing an entry for a card whose
// journal was never created.
var ErrJournalNotProvisioned = errors.New("journal not provisioned")

type AddEntryOptions struct {
	CardNumber int
	ISBN       string
	Title      string
	Notes      string

	// Imported entries keep what the sheet recorded. Left empty, DateAdded is
	// today and the entry goes to the end of the journal.
	DateAdded string
	Finished  bool
	SortOrder int
}

type OrderUpdate struct {
	ISBN  string `json:"isbn" mod:"trim" validate:"required"`
	Order int    `json:"order"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// ProvisionJournal creates the member's journal. Provisioning an existing
// journal is a no-op.
func (svc *Service) ProvisionJournal(ctx context.Context, cardNumber int) error {
	_, err := svc.db.NewInsert().
		Model(&models.Journal{CardNumber: cardNumber, CreatedAt: time.Now()}).
		On("CONFLICT (card_number) DO NOTHING").
		Exec(ctx)
	return errors.WithStack(err)
}

func journalExists(ctx context.Context, db bun.IDB, cardNumber int) (bool, error) {
	exists, err := db.NewSelect().
		Model((*models.Journal)(nil)).
		Where("j.card_number = ?", cardNumber).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// AddEntry records a book in a member's journal. An entry is written once per
// (card, isbn); adding it again returns the existing entry untouched.
func (svc *Service) AddEntry(ctx context.Context, opts AddEntryOptions) (*models.JournalEntry, error) {
	var entry *models.JournalEntry

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := journalExists(ctx, tx, opts.CardNumber)
		if err != nil {
			return err
		}
		if !exists {
			return ErrJournalNotProvisioned
		}

		existing := &models.JournalEntry{}
		err = tx.NewSelect().
			Model(existing).
			Where("je.card_number = ?", opts.CardNumber).
			Where("je.isbn = ?", opts.ISBN).
			Scan(ctx)
		if err == nil {
			entry = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		now := time.Now()
		entry = &models.JournalEntry{
			ID:         uuid.NewString(),
			CreatedAt:  now,
			UpdatedAt:  now,
			CardNumber: opts.CardNumber,
			ISBN:       opts.ISBN,
			Title:      opts.Title,
			DateAdded:  opts.DateAdded,
			Notes:      opts.Notes,
			Finished:   opts.Finished,
			SortOrder:  opts.SortOrder,
		}
		if entry.DateAdded == "" {
			entry.DateAdded = now.Format(models.JournalDateFormat)
		}
		if entry.SortOrder == 0 {
			var maxOrder int
			err = tx.NewSelect().
				Model((*models.JournalEntry)(nil)).
				ColumnExpr("COALESCE(MAX(je.sort_order), 0)").
				Where("je.card_number = ?", opts.CardNumber).
				Scan(ctx, &maxOrder)
			if err != nil {
				return errors.WithStack(err)
			}
			entry.SortOrder = maxOrder + 1
		}

		_, err = tx.NewInsert().Model(entry).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// GetJournal returns the member's entries by their order, then by when they
// were added. A card without a journal has no entries.
func (svc *Service) GetJournal(ctx context.Context, cardNumber int) ([]*models.JournalEntry, error) {
	entries := []*models.JournalEntry{}

	err := svc.db.NewSelect().
		Model(&entries).
		Where("je.card_number = ?", cardNumber).
		OrderExpr("je.sort_order ASC, je.rowid ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return entries, nil
}

// UpdateNotes overwrites an entry's notes. A card without a journal is
// ignored; a journal without the entry is a not-found error.
func (svc *Service) UpdateNotes(ctx context.Context, cardNumber int, isbn, notes string) error {
	return svc.updateEntry(ctx, cardNumber, isbn, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("notes = ?", notes)
	})
}

// SetFinished follows the same rules as UpdateNotes.
func (svc *Service) SetFinished(ctx context.Context, cardNumber int, isbn string, finished bool) error {
	return svc.updateEntry(ctx, cardNumber, isbn, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("finished = ?", finished)
	})
}

func (svc *Service) updateEntry(ctx context.Context, cardNumber int, isbn string, set func(*bun.UpdateQuery) *bun.UpdateQuery) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := journalExists(ctx, tx, cardNumber)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		q := tx.NewUpdate().
			Model((*models.JournalEntry)(nil)).
			Set("updated_at = ?", time.Now()).
			Where("card_number = ?", cardNumber).
			Where("isbn = ?", isbn)
		res, err := set(q).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Journal entry")
		}
		return nil
	})
}

// Reorder writes the given order values as-is. ISBNs not in the journal are
// skipped.
func (svc *Service) Reorder(ctx context.Context, cardNumber int, updates []OrderUpdate) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := journalExists(ctx, tx, cardNumber)
		if err != nil || !exists {
			return err
		}

		now := time.Now()
		for _, u := range updates {
			_, err := tx.NewUpdate().
				Model((*models.JournalEntry)(nil)).
				Set("sort_order = ?", u.Order).
				Set("updated_at = ?", now).
				Where("card_number = ?", cardNumber).
				Where("isbn = ?", u.ISBN).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
}
