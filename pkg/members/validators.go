package members

type RegisterMemberPayload struct {
	FirstName    string `json:"firstName" mod:"trim" validate:"required,max=100"`
	LastName     string `json:"lastName" mod:"trim" validate:"required,max=100"`
	City         string `json:"city" mod:"trim" validate:"max=100"`
	Neighborhood string `json:"neighborhood" mod:"trim" validate:"max=100"`
}
