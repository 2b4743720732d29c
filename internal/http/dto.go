package http

import (
	"bytes"
	"encoding/json"
)

const (
	actionIncrement = "increment"
	actionDecrement = "decrement"
	actionAddReview = "add_review"
)

type bookActionRequest struct {
	Action     string `json:"action" validate:"required,oneof=increment decrement add_review"`
	ReviewText string `json:"reviewText" validate:"required_if=Action add_review"`
}

type priceRequest struct {
	Price rawPrice `json:"price"`
}

type priceEntry struct {
	ISBN  string   `json:"isbn" validate:"required"`
	Price rawPrice `json:"price"`
}

// rawPrice accepts a JSON string, number or null and keeps its text for
// inventory.ParsePrice. Other JSON values are kept as empty text, which
// clears the price.
type rawPrice struct {
	Text    string
	Present bool
}

func (p *rawPrice) UnmarshalJSON(data []byte) error {
	p.Present = true
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		p.Text = ""
	case data[0] == '"':
		return json.Unmarshal(data, &p.Text)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		p.Text = string(data)
	default:
		p.Text = ""
	}
	return nil
}

type listResponse struct {
	TotalBooks  int         `json:"totalBooks"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Books       interface{} `json:"books"`
}

type modifiedResponse struct {
	ModifiedCount int `json:"modifiedCount"`
}
