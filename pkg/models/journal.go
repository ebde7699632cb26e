package models

import (
	"time"

	"github.com/uptrace/bun"
)

// JournalDateFormat is how DateAdded is written (US month/day/year, no
// padding).
const JournalDateFormat = "1/2/2006"

// Journal marks a member's reading journal as provisioned. Entries for a card
// without a Journal row are never written.
type Journal struct {
	bun.BaseModel `bun:"table:journals,alias:j"`

	CardNumber int       `bun:"card_number,pk" json:"libraryCardNumber"`
	CreatedAt  time.Time `json:"createdAt"`
}

type JournalEntry struct {
	bun.BaseModel `bun:"table:journal_entries,alias:je"`

	ID         string    `bun:"id,pk" json:"id"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
	CardNumber int       `bun:"card_number" json:"libraryCardNumber"`
	ISBN       string    `bun:"isbn" json:"isbn"`
	Title      string    `bun:"title" json:"title"`
	DateAdded  string    `bun:"date_added" json:"dateAdded"`
	Notes      string    `bun:"notes" json:"notes"`
	Finished   bool      `bun:"finished" json:"finished"`
	SortOrder  int       `bun:"sort_order" json:"order"`
}
