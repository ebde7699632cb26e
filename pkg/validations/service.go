package validations

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/littleshelf/littleshelf/pkg/database"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

var identRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RetrieveRule returns the rule attached to table.column.
func (svc *Service) RetrieveRule(ctx context.Context, table, column string) (*models.ValidationRule, error) {
	rule := &models.ValidationRule{}

	err := svc.db.
		NewSelect().
		Model(rule).
		Where("vr.table_name = ?", table).
		Where("vr.column_name = ?", column).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Validation rule")
		}
		return nil, errors.WithStack(err)
	}

	return rule, nil
}

// GetValidationList resolves the values allowed in table.column. A column
// without a rule has no list. A rule that can't be resolved (a malformed list,
// a range pointing at a missing table or column) also yields an empty list;
// the failure is logged. Only a failure to read the rule itself is returned.
func (svc *Service) GetValidationList(ctx context.Context, table, column string) ([]string, error) {
	log := logger.FromContext(ctx)

	rule, err := svc.RetrieveRule(ctx, table, column)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Validation rule")) {
			return []string{}, nil
		}
		return nil, err
	}

	var values []string
	switch rule.ConditionType {
	case models.ConditionOneOfList:
		values, err = decodeList(rule.ListValues)
	case models.ConditionOneOfRange:
		values, err = svc.resolveRange(ctx, rule.RangeRef)
	default:
		err = errors.Errorf("unknown condition type %q", rule.ConditionType)
	}
	if err != nil {
		log.Warn("failed to resolve validation list", logger.Data{
			"table":  table,
			"column": column,
			"error":  err.Error(),
		})
		return []string{}, nil
	}

	return values, nil
}

// SetRangeRule points table.column at the values of another column, given as
// "table.column". The constrained column must exist (a configuration error
// otherwise) and so must the referenced one (a validation error otherwise).
func (svc *Service) SetRangeRule(ctx context.Context, table, column, rangeRef string) error {
	if _, _, err := splitRangeRef(rangeRef); err != nil {
		return errcodes.ValidationError(err.Error())
	}
	return svc.upsertRule(ctx, &models.ValidationRule{
		TableName:     table,
		ColumnName:    column,
		ConditionType: models.ConditionOneOfRange,
		ListValues:    "[]",
		RangeRef:      rangeRef,
		ShowCustomUI:  true,
	})
}

// SetListRule restricts table.column to an explicit list of values.
func (svc *Service) SetListRule(ctx context.Context, table, column string, values []string) error {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return errors.WithStack(err)
	}
	return svc.upsertRule(ctx, &models.ValidationRule{
		TableName:     table,
		ColumnName:    column,
		ConditionType: models.ConditionOneOfList,
		ListValues:    string(encoded),
		ShowCustomUI:  true,
	})
}

func (svc *Service) upsertRule(ctx context.Context, rule *models.ValidationRule) error {
	exists, err := database.TableExists(ctx, svc.db, rule.TableName)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.Configuration(fmt.Sprintf("The %s table doesn't exist.", rule.TableName))
	}
	exists, err = database.ColumnExists(ctx, svc.db, rule.TableName, rule.ColumnName)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.Configuration(fmt.Sprintf("The %s.%s column doesn't exist.", rule.TableName, rule.ColumnName))
	}

	if rule.ConditionType == models.ConditionOneOfRange {
		table, column, err := splitRangeRef(rule.RangeRef)
		if err != nil {
			return errcodes.ValidationError(err.Error())
		}
		exists, err := database.ColumnExists(ctx, svc.db, table, column)
		if err != nil {
			return err
		}
		if !exists {
			return errcodes.ValidationError(fmt.Sprintf("Range %s doesn't exist.", rule.RangeRef))
		}
	}

	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err = svc.db.NewInsert().
		Model(rule).
		On("CONFLICT (table_name, column_name) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("condition_type = EXCLUDED.condition_type").
		Set("list_values = EXCLUDED.list_values").
		Set("range_ref = EXCLUDED.range_ref").
		Set("strict = EXCLUDED.strict").
		Set("show_custom_ui = EXCLUDED.show_custom_ui").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) resolveRange(ctx context.Context, rangeRef string) ([]string, error) {
	table, column, err := splitRangeRef(rangeRef)
	if err != nil {
		return nil, err
	}

	// SQLite reads an unknown quoted column as a string literal.
	exists, err := database.ColumnExists(ctx, svc.db, table, column)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Errorf("range column %q doesn't exist", rangeRef)
	}

	values := []string{}
	err = svc.db.NewSelect().
		ColumnExpr("?", bun.Ident(column)).
		TableExpr("?", bun.Ident(table)).
		Where("? IS NOT NULL", bun.Ident(column)).
		Where("trim(?) <> ''", bun.Ident(column)).
		OrderExpr("rowid ASC").
		Scan(ctx, &values)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return values, nil
}

func splitRangeRef(rangeRef string) (string, string, error) {
	table, column, ok := strings.Cut(rangeRef, ".")
	if !ok || !identRE.MatchString(table) || !identRE.MatchString(column) {
		return "", "", errors.Errorf("invalid range reference %q", rangeRef)
	}
	return table, column, nil
}

func decodeList(raw string) ([]string, error) {
	values := []string{}
	if strings.TrimSpace(raw) == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errors.Wrap(err, "invalid list values")
	}
	return values, nil
}
