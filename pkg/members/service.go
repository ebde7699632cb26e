package members

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/littleshelf/littleshelf/pkg/validations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// JournalProvisioner creates a new member's reading journal.
type JournalProvisioner interface {
	ProvisionJournal(ctx context.Context, cardNumber int) error
}

type RegisterMemberOptions struct {
	FirstName    string
	LastName     string
	City         string
	Neighborhood string
}

// RegisterMemberResult is the registered member plus warnings about the
// follow-up steps that didn't complete.
type RegisterMemberResult struct {
	Member     *models.Member
	Advisories []models.Advisory
}

type Service struct {
	db                *bun.DB
	validationService *validations.Service
	journals          JournalProvisioner
}

func NewService(db *bun.DB, journals JournalProvisioner) *Service {
	return &Service{
		db:                db,
		validationService: validations.NewService(db),
		journals:          journals,
	}
}

// RegisterMember adds a member under the next card number, points the book
// location picker at the member list, and provisions the member's journal.
// Only the insert and a missing books table fail the call; the other
// follow-ups are reported as advisories.
func (svc *Service) RegisterMember(ctx context.Context, opts RegisterMemberOptions) (*RegisterMemberResult, error) {
	log := logger.FromContext(ctx)

	member := &models.Member{
		FirstName:    strings.TrimSpace(opts.FirstName),
		LastName:     strings.TrimSpace(opts.LastName),
		City:         strings.TrimSpace(opts.City),
		Neighborhood: strings.TrimSpace(opts.Neighborhood),
	}
	if member.FirstName == "" {
		return nil, errcodes.ValidationError("First name is required")
	}
	if member.LastName == "" {
		return nil, errcodes.ValidationError("Last name is required")
	}
	member.FirstNameKey = FoldName(member.FirstName)
	member.LastNameInitial = LastNameInitial(member.LastName)
	member.CreatedAt = time.Now()

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*models.Member)(nil)).
			Where("m.first_name_key = ?", member.FirstNameKey).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if taken {
			return errcodes.Conflict(fmt.Sprintf("%q is already registered", member.FirstName))
		}

		next, err := nextCardNumber(ctx, tx)
		if err != nil {
			return err
		}
		member.CardNumber = next

		_, err = tx.NewInsert().Model(member).Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return errcodes.Conflict(fmt.Sprintf("%q is already registered", member.FirstName))
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &RegisterMemberResult{Member: member}

	err = svc.validationService.SetRangeRule(ctx, "books", "location", "members.first_name")
	if err != nil {
		if errcodes.IsCode(err, "configuration_error") {
			return nil, err
		}
		result.advise(ctx, models.AdvisoryLocationRuleFailed, "Location list wasn't updated: "+err.Error())
	}

	if err := svc.journals.ProvisionJournal(ctx, member.CardNumber); err != nil {
		result.advise(ctx, models.AdvisoryProvisionFailed, "Reading journal wasn't created: "+err.Error())
	}

	log.Info("registered member", logger.Data{"card_number": member.CardNumber})

	return result, nil
}

func (r *RegisterMemberResult) advise(ctx context.Context, code, msg string) {
	logger.FromContext(ctx).Warn(msg, logger.Data{"card_number": r.Member.CardNumber, "advisory": code})
	r.Advisories = append(r.Advisories, models.Advisory{Code: code, Message: msg})
}

// ListMembers returns every member by card number.
func (svc *Service) ListMembers(ctx context.Context) ([]*models.Member, error) {
	members := []*models.Member{}

	err := svc.db.NewSelect().
		Model(&members).
		Order("m.card_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return members, nil
}

// ResolveByName finds the member whose first name matches name, ignoring case
// and surrounding whitespace.
func ResolveByName(ctx context.Context, db bun.IDB, name string) (*models.Member, error) {
	key := FoldName(name)
	if key == "" {
		return nil, errcodes.NotFound("Member")
	}

	member := &models.Member{}
	err := db.NewSelect().
		Model(member).
		Where("m.first_name_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Member")
		}
		return nil, errors.WithStack(err)
	}

	return member, nil
}

// ImportMember inserts a member under the card number it already has. It
// reports false without writing when the card number or the first name is
// taken.
func (svc *Service) ImportMember(ctx context.Context, member *models.Member) (bool, error) {
	member.FirstName = strings.TrimSpace(member.FirstName)
	member.LastName = strings.TrimSpace(member.LastName)
	if member.FirstName == "" || member.LastName == "" {
		return false, errcodes.ValidationError("First and last name are required")
	}
	member.FirstNameKey = FoldName(member.FirstName)
	if member.LastNameInitial == "" {
		member.LastNameInitial = LastNameInitial(member.LastName)
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now()
	}

	var inserted bool
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*models.Member)(nil)).
			Where("m.card_number = ? OR m.first_name_key = ?", member.CardNumber, member.FirstNameKey).
			Exists(ctx)
		if err != nil || taken {
			return errors.WithStack(err)
		}

		_, err = tx.NewInsert().Model(member).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		inserted = true
		return nil
	})
	if err != nil || !inserted {
		return false, err
	}

	return true, errors.WithStack(svc.journals.ProvisionJournal(ctx, member.CardNumber))
}

func nextCardNumber(ctx context.Context, db bun.IDB) (int, error) {
	var maxCard int
	err := db.NewSelect().
		Model((*models.Member)(nil)).
		ColumnExpr("COALESCE(MAX(m.card_number), 0)").
		Scan(ctx, &maxCard)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return maxCard + 1, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
