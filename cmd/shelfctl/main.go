package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/littleshelf/littleshelf/pkg/config"
	"github.com/littleshelf/littleshelf/pkg/database"
	"github.com/littleshelf/littleshelf/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	tr := newTransfer(db)

	app := &cli.App{
		Name:        "shelfctl",
		Usage:       "move library data in and out of littleshelf",
		Description: "Imports and exports the Inventory, Locations and Journal-{card} tabs of the library spreadsheet as CSV.",
		Before: func(c *cli.Context) error {
			_, err := migrations.BringUpToDate(c.Context, db)
			return errors.Wrap(err, "failed to bring schema up to date")
		},
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "import a CSV export of a spreadsheet tab; existing rows are kept",
				Subcommands: []*cli.Command{
					{
						Name:      "inventory",
						Usage:     "import books",
						ArgsUsage: "FILE",
						Action: func(c *cli.Context) error {
							return withFile(c, 0, func(f *os.File) (counts, error) {
								return tr.importInventory(c.Context, f)
							})
						},
					},
					{
						Name:      "members",
						Usage:     "import members with their card numbers",
						ArgsUsage: "FILE",
						Action: func(c *cli.Context) error {
							return withFile(c, 0, func(f *os.File) (counts, error) {
								return tr.importMembers(c.Context, f)
							})
						},
					},
					{
						Name:      "journal",
						Usage:     "import a member's reading journal",
						ArgsUsage: "CARD FILE",
						Action: func(c *cli.Context) error {
							card, err := cardArg(c)
							if err != nil {
								return err
							}
							return withFile(c, 1, func(f *os.File) (counts, error) {
								return tr.importJournal(c.Context, card, f)
							})
						},
					},
				},
			},
			{
				Name:  "export",
				Usage: "write a spreadsheet tab as CSV to stdout",
				Subcommands: []*cli.Command{
					{
						Name:  "inventory",
						Usage: "export books",
						Action: func(c *cli.Context) error {
							return tr.exportInventory(c.Context, os.Stdout)
						},
					},
					{
						Name:  "members",
						Usage: "export members",
						Action: func(c *cli.Context) error {
							return tr.exportMembers(c.Context, os.Stdout)
						},
					},
					{
						Name:      "journal",
						Usage:     "export a member's reading journal",
						ArgsUsage: "CARD",
						Action: func(c *cli.Context) error {
							card, err := cardArg(c)
							if err != nil {
								return err
							}
							return tr.exportJournal(c.Context, card, os.Stdout)
						},
					},
				},
			},
			{
				Name:  "rules",
				Usage: "inspect and set column validation lists",
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "print the values allowed in a column",
						ArgsUsage: "TABLE COLUMN",
						Action: func(c *cli.Context) error {
							if c.NArg() != 2 {
								return cli.Exit("expected TABLE COLUMN", 1)
							}
							values, err := tr.validationService.GetValidationList(c.Context, c.Args().Get(0), c.Args().Get(1))
							if err != nil {
								return err
							}
							for _, v := range values {
								fmt.Println(v)
							}
							return nil
						},
					},
					{
						Name:      "set-list",
						Usage:     "restrict a column to the given values",
						ArgsUsage: "TABLE COLUMN VALUE...",
						Action: func(c *cli.Context) error {
							if c.NArg() < 3 {
								return cli.Exit("expected TABLE COLUMN VALUE...", 1)
							}
							args := c.Args().Slice()
							return tr.validationService.SetListRule(c.Context, args[0], args[1], args[2:])
						},
					},
					{
						Name:      "set-range",
						Usage:     "restrict a column to the values of another column",
						ArgsUsage: "TABLE COLUMN REF_TABLE.REF_COLUMN",
						Action: func(c *cli.Context) error {
							if c.NArg() != 3 {
								return cli.Exit("expected TABLE COLUMN REF_TABLE.REF_COLUMN", 1)
							}
							return tr.validationService.SetRangeRule(c.Context, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2))
						},
					},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func cardArg(c *cli.Context) (int, error) {
	card, err := strconv.Atoi(c.Args().Get(0))
	if err != nil || card < 1 {
		return 0, cli.Exit(fmt.Sprintf("invalid library card number %q", c.Args().Get(0)), 1)
	}
	return card, nil
}

func withFile(c *cli.Context, argIndex int, fn func(*os.File) (counts, error)) error {
	path := c.Args().Get(argIndex)
	if path == "" {
		return cli.Exit("missing FILE argument", 1)
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	result, err := fn(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: imported %d, skipped %d\n", path, result.Imported, result.Skipped)
	return nil
}
