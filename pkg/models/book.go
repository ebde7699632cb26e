package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is a row of the inventory, keyed by ISBN. Location is the first name
// of the member holding the book; HolderCardNumber is that member's card
// once the name has been resolved.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ISBN             string    `bun:"isbn,pk" json:"isbn"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
	CoverFormula     string    `bun:"cover_formula" json:"-"`
	Cover            string    `bun:"-" json:"cover"`
	Title            string    `bun:"title" json:"title"`
	Authors          string    `bun:"authors" json:"authors"`
	ReadingLevel     string    `bun:"reading_level" json:"readingLevel"`
	Location         string    `bun:"location" json:"location"`
	HolderCardNumber *int      `bun:"holder_card_number" json:"-"`
	Holder           *Member   `bun:"rel:belongs-to,join:holder_card_number=card_number" json:"member,omitempty"`
	Publishers       string    `bun:"publishers" json:"publishers"`
	Pages            string    `bun:"pages" json:"pages"`
	Genres           string    `bun:"genres" json:"genres"`
	Language         string    `bun:"language" json:"language"`
	Notes            string    `bun:"notes" json:"notes"`
	Description      string    `bun:"description" json:"description"`
	RequestedBy      string    `bun:"requested_by" json:"requestedBy"`
}
