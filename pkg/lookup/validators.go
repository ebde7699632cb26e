package lookup

type ISBNQuery struct {
	ISBN string `query:"isbn" json:"isbn" mod:"trim" validate:"required"`
}
