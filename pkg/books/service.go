package books

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/members"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/littleshelf/littleshelf/pkg/sheets"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// ErrNoJournal is returned by a JournalRecorder when the member has no
// reading journal to record into.
var ErrNoJournal = errors.New("member has no reading journal")

// JournalRecorder adds a book to a member's reading journal. Recording the
// same book for the same member twice is a no-op.
type JournalRecorder interface {
	RecordBook(ctx context.Context, cardNumber int, isbn, title, notes string) error
}

type AddBookOptions struct {
	ISBN         string
	Cover        string
	Title        string
	Authors      string
	ReadingLevel string
	Location     string
	Publishers   string
	Pages        string
	Genres       string
	Language     string
	Notes        string
	Description  string
}

// Result is a book write plus warnings about the journal sync that followed
// it.
type Result struct {
	Book       *models.Book
	Advisories []models.Advisory
}

type Service struct {
	db       *bun.DB
	journals JournalRecorder
}

func NewService(db *bun.DB, journals JournalRecorder) *Service {
	return &Service{db, journals}
}

// RetrieveBook returns the book with the given ISBN along with its holder.
func (svc *Service) RetrieveBook(ctx context.Context, isbn string) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.NewSelect().
		Model(book).
		Relation("Holder").
		Where("b.isbn = ?", strings.TrimSpace(isbn)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}
	book.Cover = sheets.CoverURL(book.CoverFormula)
	if book.HolderCardNumber == nil {
		book.Holder = nil
	}

	return book, nil
}

// ListBooks returns the inventory in the order books were added. Books whose
// holder was never resolved are matched to a member by location name.
func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.NewSelect().
		Model(&books).
		Relation("Holder").
		OrderExpr("b.rowid ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var byName map[string]*models.Member
	for _, book := range books {
		book.Cover = sheets.CoverURL(book.CoverFormula)
		if book.HolderCardNumber != nil {
			continue
		}
		book.Holder = nil
		if book.Location == "" {
			continue
		}
		if byName == nil {
			byName, err = svc.membersByName(ctx)
			if err != nil {
				return nil, err
			}
		}
		book.Holder = byName[members.FoldName(book.Location)]
	}

	return books, nil
}

func (svc *Service) membersByName(ctx context.Context) (map[string]*models.Member, error) {
	var all []*models.Member
	err := svc.db.NewSelect().Model(&all).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	byName := make(map[string]*models.Member, len(all))
	for _, m := range all {
		byName[m.FirstNameKey] = m
	}
	return byName, nil
}

// AddBook catalogs a new book at the given location. When the location is a
// member, the book is also recorded in their journal.
func (svc *Service) AddBook(ctx context.Context, opts AddBookOptions) (*Result, error) {
	isbn := strings.TrimSpace(opts.ISBN)
	if isbn == "" {
		return nil, errcodes.ValidationError("ISBN is required")
	}
	if strings.TrimSpace(opts.Title) == "" || strings.TrimSpace(opts.Authors) == "" || strings.TrimSpace(opts.Location) == "" {
		return nil, errcodes.ValidationError("Title, Author, and Location are required fields")
	}

	now := time.Now()
	book := &models.Book{
		ISBN:         isbn,
		CreatedAt:    now,
		UpdatedAt:    now,
		CoverFormula: sheets.CoverFormula(opts.Cover),
		Title:        strings.TrimSpace(opts.Title),
		Authors:      strings.TrimSpace(opts.Authors),
		ReadingLevel: strings.TrimSpace(opts.ReadingLevel),
		Location:     strings.TrimSpace(opts.Location),
		Publishers:   strings.TrimSpace(opts.Publishers),
		Pages:        strings.TrimSpace(opts.Pages),
		Genres:       strings.TrimSpace(opts.Genres),
		Language:     strings.TrimSpace(opts.Language),
		Notes:        strings.TrimSpace(opts.Notes),
		Description:  strings.TrimSpace(opts.Description),
	}
	book.Cover = sheets.CoverURL(book.CoverFormula)

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.isbn = ?", isbn).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict(fmt.Sprintf("Book with ISBN %s already exists in the library", isbn))
		}

		if err := resolveHolder(ctx, tx, book); err != nil {
			return err
		}

		_, err = tx.NewInsert().Model(book).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Book: book}
	svc.syncJournal(ctx, result, book.Notes)
	return result, nil
}

// MoveBook hands a book to a new location and clears any pending request.
// The new holder's journal gets the book if it doesn't have it yet.
func (svc *Service) MoveBook(ctx context.Context, isbn, location string) (*Result, error) {
	isbn = strings.TrimSpace(isbn)
	location = strings.TrimSpace(location)
	if isbn == "" || location == "" {
		return nil, errcodes.ValidationError("Missing required fields: isbn, newLocation")
	}

	book := &models.Book{}
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(book).
			Where("b.isbn = ?", isbn).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book")
			}
			return errors.WithStack(err)
		}

		book.Location = location
		book.RequestedBy = ""
		book.UpdatedAt = time.Now()
		if err := resolveHolder(ctx, tx, book); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model(book).
			Column("location", "requested_by", "holder_card_number", "updated_at").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	book.Cover = sheets.CoverURL(book.CoverFormula)

	result := &Result{Book: book}
	svc.syncJournal(ctx, result, "")
	return result, nil
}

// RequestBook records who is waiting for a book, replacing any earlier
// request.
func (svc *Service) RequestBook(ctx context.Context, isbn, requestedBy string) error {
	isbn = strings.TrimSpace(isbn)
	requestedBy = strings.TrimSpace(requestedBy)
	if isbn == "" || requestedBy == "" {
		return errcodes.ValidationError("ISBN and requestedBy are required")
	}

	res, err := svc.db.NewUpdate().
		Model((*models.Book)(nil)).
		Set("requested_by = ?", requestedBy).
		Set("updated_at = ?", time.Now()).
		Where("isbn = ?", isbn).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// ImportBook inserts a book read from an inventory export. It reports false
// without writing when the ISBN is already cataloged. Journals aren't touched.
func (svc *Service) ImportBook(ctx context.Context, book *models.Book) (bool, error) {
	book.ISBN = strings.TrimSpace(book.ISBN)
	if book.ISBN == "" {
		return false, errcodes.ValidationError("ISBN is required")
	}
	if book.CoverFormula == "" {
		book.CoverFormula = sheets.CoverFormula(book.Cover)
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	var inserted bool
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := resolveHolder(ctx, tx, book); err != nil {
			return err
		}

		res, err := tx.NewInsert().
			Model(book).
			On("CONFLICT (isbn) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, _ := res.RowsAffected()
		inserted = n > 0
		return nil
	})
	return inserted, err
}

// resolveHolder points the book at the member its location names, or at no
// one.
func resolveHolder(ctx context.Context, db bun.IDB, book *models.Book) error {
	book.HolderCardNumber = nil
	book.Holder = nil

	member, err := members.ResolveByName(ctx, db, book.Location)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Member")) {
			return nil
		}
		return err
	}

	book.HolderCardNumber = &member.CardNumber
	book.Holder = member
	return nil
}

func (svc *Service) syncJournal(ctx context.Context, result *Result, notes string) {
	book := result.Book
	if book.HolderCardNumber == nil {
		return
	}
	log := logger.FromContext(ctx)
	data := logger.Data{"isbn": book.ISBN, "card_number": *book.HolderCardNumber}

	title := book.Title
	if title == "" {
		title = "Unknown Title"
	}

	err := svc.journals.RecordBook(ctx, *book.HolderCardNumber, book.ISBN, title, notes)
	switch {
	case err == nil:
		return
	case errors.Is(err, ErrNoJournal):
		msg := fmt.Sprintf("%s has no reading journal; the book wasn't recorded.", book.Holder.FirstName)
		log.Warn(msg, data)
		result.Advisories = append(result.Advisories, models.Advisory{Code: models.AdvisoryJournalMissing, Message: msg})
	default:
		msg := "Failed to record the book in the reading journal: " + err.Error()
		log.Warn(msg, data)
		result.Advisories = append(result.Advisories, models.Advisory{Code: models.AdvisoryJournalSyncFailed, Message: msg})
	}
}
