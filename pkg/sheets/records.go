package sheets

import (
	"strconv"
	"strings"

	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/pkg/errors"
)

// InventoryHeaders are the Inventory tab's columns A through M.
var InventoryHeaders = []string{
	"ISBN", "Cover", "Title", "Authors", "Reading Level", "Location",
	"Publishers", "Pages", "Genres", "Language", "Notes", "RequestedBy",
	"Description",
}

// LocationsHeaders are the Locations tab's columns A through F.
var LocationsHeaders = []string{
	"First Name", "Last Name", "Last Name Initial", "City", "Neighborhood",
	"Library Card Number",
}

// JournalHeaders are a Journal-{card} tab's columns A through F.
var JournalHeaders = []string{
	"ISBN", "Title", "Date Added", "Notes", "Finished", "Order",
}

// BookFromRecord maps an Inventory row onto a Book. Older sheets used
// lowercase or abbreviated headers, so those are accepted as well. The cover
// formula is kept as stored and also decoded into Cover.
func BookFromRecord(rec Record) *models.Book {
	cover := rec.Get("Cover", "cover")
	return &models.Book{
		ISBN:         rec.Get("ISBN", "isbn"),
		CoverFormula: CoverFormula(CoverURL(cover)),
		Cover:        CoverURL(cover),
		Title:        rec.Get("Title", "title"),
		Authors:      rec.Get("Authors", "author", "authors"),
		ReadingLevel: rec.Get("Reading Level", "level", "readingLevel"),
		Location:     rec.Get("Location", "location"),
		Publishers:   rec.Get("Publishers", "publishers"),
		Pages:        rec.Get("Pages", "pages"),
		Genres:       rec.Get("Genres", "genres"),
		Language:     rec.Get("Language", "language"),
		Notes:        rec.Get("Notes", "notes"),
		RequestedBy:  rec.Get("RequestedBy", "requestedBy", "Requested By"),
		Description:  rec.Get("Description", "description"),
	}
}

// InventoryTable lays books out as the Inventory tab.
func InventoryTable(books []*models.Book) *Table {
	t := &Table{Name: Inventory, Headers: InventoryHeaders}
	for _, b := range books {
		t.Records = append(t.Records, Record{
			"ISBN":          b.ISBN,
			"Cover":         CoverFormula(b.Cover),
			"Title":         b.Title,
			"Authors":       b.Authors,
			"Reading Level": b.ReadingLevel,
			"Location":      b.Location,
			"Publishers":    b.Publishers,
			"Pages":         b.Pages,
			"Genres":        b.Genres,
			"Language":      b.Language,
			"Notes":         b.Notes,
			"RequestedBy":   b.RequestedBy,
			"Description":   b.Description,
		})
	}
	return t
}

// MemberFromRecord maps a Locations row onto a Member. Rows without a first
// name or a positive card number aren't members.
func MemberFromRecord(rec Record) (*models.Member, error) {
	firstName := rec.Get("First Name", "firstName")
	if firstName == "" {
		return nil, errors.New("first name is required")
	}
	rawCard := rec.Get("Library Card Number", "libraryCardNumber")
	card, err := strconv.Atoi(rawCard)
	if err != nil || card < 1 {
		return nil, errors.Errorf("invalid library card number %q for %s", rawCard, firstName)
	}
	lastName := rec.Get("Last Name", "lastName")
	initial := rec.Get("Last Name Initial", "lastNameInitial")
	return &models.Member{
		CardNumber:      card,
		FirstName:       firstName,
		LastName:        lastName,
		LastNameInitial: initial,
		City:            rec.Get("City", "city"),
		Neighborhood:    rec.Get("Neighborhood", "neighborhood"),
	}, nil
}

// MembersTable lays members out as the Locations tab.
func MembersTable(members []*models.Member) *Table {
	t := &Table{Name: Locations, Headers: LocationsHeaders}
	for _, m := range members {
		t.Records = append(t.Records, Record{
			"First Name":          m.FirstName,
			"Last Name":           m.LastName,
			"Last Name Initial":   m.LastNameInitial,
			"City":                m.City,
			"Neighborhood":        m.Neighborhood,
			"Library Card Number": strconv.Itoa(m.CardNumber),
		})
	}
	return t
}

// EntryFromRecord maps a journal row onto an entry. Finished accepts the
// spellings a spreadsheet checkbox exports; a missing or unparsable order is
// left at zero for the importer to fill in.
func EntryFromRecord(cardNumber int, rec Record) (*models.JournalEntry, error) {
	isbn := rec.Get("ISBN", "isbn")
	if isbn == "" {
		return nil, errors.New("isbn is required")
	}
	order, _ := strconv.Atoi(rec.Get("Order", "order"))
	return &models.JournalEntry{
		CardNumber: cardNumber,
		ISBN:       isbn,
		Title:      rec.Get("Title", "title"),
		DateAdded:  rec.Get("Date Added", "dateAdded"),
		Notes:      rec.Get("Notes", "notes"),
		Finished:   parseBool(rec.Get("Finished", "finished")),
		SortOrder:  order,
	}, nil
}

// JournalTable lays a member's entries out as their Journal-{card} tab.
func JournalTable(cardNumber int, entries []*models.JournalEntry) *Table {
	t := &Table{Name: JournalName(cardNumber), Headers: JournalHeaders}
	for _, e := range entries {
		t.Records = append(t.Records, Record{
			"ISBN":       e.ISBN,
			"Title":      e.Title,
			"Date Added": e.DateAdded,
			"Notes":      e.Notes,
			"Finished":   strings.ToUpper(strconv.FormatBool(e.Finished)),
			"Order":      strconv.Itoa(e.SortOrder),
		})
	}
	return t
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x", "✓":
		return true
	default:
		return false
	}
}
