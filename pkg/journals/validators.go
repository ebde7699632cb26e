package journals

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/segmentio/encoding/json"
)

// CardNumber is a library card number that decodes from either a JSON number
// or a numeric string.
type CardNumber int

func (n *CardNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return errcodes.ValidationTypeError(`"libraryCardNumber" should be a number`)
		}
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return errcodes.ValidationTypeError(`"libraryCardNumber" should be a number`)
	}
	*n = CardNumber(v)
	return nil
}

type GetJournalQuery struct {
	CardNumber int `query:"libraryCardNumber" json:"libraryCardNumber" validate:"required,min=1"`
}

type UpdateEntryPayload struct {
	CardNumber CardNumber `json:"libraryCardNumber" validate:"required,min=1"`
	ISBN       string     `json:"isbn" mod:"trim" validate:"required"`
	Notes      string     `json:"notes"`
}

type UpdateFinishedPayload struct {
	CardNumber CardNumber `json:"libraryCardNumber" validate:"required,min=1"`
	ISBN       string     `json:"isbn" mod:"trim" validate:"required"`
	Finished   *bool      `json:"finished" validate:"required"`
}

type ReorderPayload struct {
	CardNumber   CardNumber    `json:"libraryCardNumber" validate:"required,min=1"`
	OrderUpdates []OrderUpdate `json:"orderUpdates" mod:"dive" validate:"required,dive"`
}
