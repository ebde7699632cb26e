package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE members (
				card_number INTEGER PRIMARY KEY CHECK (card_number > 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				first_name TEXT NOT NULL CHECK (trim(first_name) <> ''),
				first_name_key TEXT NOT NULL,
				last_name TEXT NOT NULL CHECK (trim(last_name) <> ''),
				last_name_initial TEXT NOT NULL,
				city TEXT NOT NULL DEFAULT '',
				neighborhood TEXT NOT NULL DEFAULT ''
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_members_first_name_key ON members (first_name_key)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE books (
				isbn TEXT PRIMARY KEY CHECK (trim(isbn) <> ''),
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				cover_formula TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL DEFAULT '',
				authors TEXT NOT NULL DEFAULT '',
				reading_level TEXT NOT NULL DEFAULT '',
				location TEXT NOT NULL DEFAULT '',
				holder_card_number INTEGER REFERENCES members (card_number) ON DELETE SET NULL,
				publishers TEXT NOT NULL DEFAULT '',
				pages TEXT NOT NULL DEFAULT '',
				genres TEXT NOT NULL DEFAULT '',
				language TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				requested_by TEXT NOT NULL DEFAULT ''
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_holder_card_number ON books (holder_card_number)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE journals (
				card_number INTEGER PRIMARY KEY REFERENCES members (card_number) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE journal_entries (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				card_number INTEGER NOT NULL REFERENCES journals (card_number) ON DELETE CASCADE,
				isbn TEXT NOT NULL CHECK (trim(isbn) <> ''),
				title TEXT NOT NULL DEFAULT '',
				date_added TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				finished BOOLEAN NOT NULL DEFAULT FALSE,
				sort_order INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_journal_entries_card_number_isbn ON journal_entries (card_number, isbn)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE validation_rules (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				table_name TEXT NOT NULL,
				column_name TEXT NOT NULL,
				condition_type TEXT NOT NULL CHECK (condition_type IN ('ONE_OF_LIST', 'ONE_OF_RANGE')),
				list_values TEXT NOT NULL DEFAULT '[]',
				range_ref TEXT NOT NULL DEFAULT '',
				strict BOOLEAN NOT NULL DEFAULT FALSE,
				show_custom_ui BOOLEAN NOT NULL DEFAULT TRUE
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_validation_rules_table_column ON validation_rules (table_name, column_name)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Location pickers list every registered member's first name.
		_, err = db.Exec(`
			INSERT INTO validation_rules (table_name, column_name, condition_type, range_ref, strict, show_custom_ui)
			VALUES ('books', 'location', 'ONE_OF_RANGE', 'members.first_name', FALSE, TRUE)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"validation_rules", "journal_entries", "journals", "books", "members"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
