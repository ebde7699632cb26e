package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Member struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	CardNumber      int       `bun:"card_number,pk" json:"libraryCardNumber"`
	CreatedAt       time.Time `json:"-"`
	FirstName       string    `bun:"first_name" json:"firstName"`
	FirstNameKey    string    `bun:"first_name_key" json:"-"`
	LastName        string    `bun:"last_name" json:"lastName"`
	LastNameInitial string    `bun:"last_name_initial" json:"lastNameInitial"`
	City            string    `bun:"city" json:"city"`
	Neighborhood    string    `bun:"neighborhood" json:"neighborhood"`
}
