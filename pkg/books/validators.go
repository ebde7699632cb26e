package books

// AddBookPayload leaves title, authors and location to the service so a
// manual entry missing any of them gets one combined message.
type AddBookPayload struct {
	ISBN         string `json:"isbn" mod:"trim"`
	Cover        string `json:"cover" mod:"trim"`
	Title        string `json:"title" mod:"trim"`
	Authors      string `json:"authors" mod:"trim"`
	ReadingLevel string `json:"readingLevel" mod:"trim"`
	Location     string `json:"location" mod:"trim"`
	Publishers   string `json:"publishers" mod:"trim"`
	Pages        string `json:"pages" mod:"trim"`
	Genres       string `json:"genres" mod:"trim"`
	Language     string `json:"language" mod:"trim"`
	Notes        string `json:"notes" mod:"trim"`
	Description  string `json:"description" mod:"trim"`
	Finished     *bool  `json:"finished"`
}

type CheckoutBookPayload struct {
	ISBN        string `json:"isbn" mod:"trim" validate:"required"`
	NewLocation string `json:"newLocation" mod:"trim" validate:"required"`
}

type RequestBookPayload struct {
	ISBN        string `json:"isbn" mod:"trim" validate:"required"`
	RequestedBy string `json:"requestedBy" mod:"trim" validate:"required"`
}
