package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ConditionOneOfList  = "ONE_OF_LIST"
	ConditionOneOfRange = "ONE_OF_RANGE"
)

// ValidationRule constrains the values of one column. A ONE_OF_LIST rule
// carries its values as a JSON array in ListValues; a ONE_OF_RANGE rule
// points at another column with RangeRef ("table.column").
type ValidationRule struct {
	bun.BaseModel `bun:"table:validation_rules,alias:vr"`

	ID            int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	TableName     string    `bun:"table_name" json:"tableName"`
	ColumnName    string    `bun:"column_name" json:"columnName"`
	ConditionType string    `bun:"condition_type" json:"conditionType"`
	ListValues    string    `bun:"list_values" json:"-"`
	RangeRef      string    `bun:"range_ref" json:"rangeRef,omitempty"`
	Strict        bool      `bun:"strict" json:"strict"`
	ShowCustomUI  bool      `bun:"show_custom_ui" json:"showCustomUi"`
}
