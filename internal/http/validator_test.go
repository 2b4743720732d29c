package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_Action(t *testing.T) {
	tests := []struct {
		name     string
		req      bookActionRequest
		expField string
		expMsg   string
	}{
		{"valid increment", bookActionRequest{Action: "increment"}, "", ""},
		{"valid review", bookActionRequest{Action: "add_review", ReviewText: "good"}, "", ""},
		{"missing action", bookActionRequest{}, "action", "required"},
		{"unknown action", bookActionRequest{Action: "explode"}, "action", "one of"},
		{"review without text", bookActionRequest{Action: "add_review"}, "reviewText", "required"},
		{"increment ignores stray review text", bookActionRequest{Action: "increment", ReviewText: strings.Repeat("a", 6000)}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ValidateStruct(tt.req)
			if tt.expField == "" {
				assert.Empty(t, details)
				return
			}
			require.Len(t, details, 1)
			assert.Equal(t, tt.expField, details[0].Field)
			assert.Contains(t, details[0].Message, tt.expMsg)
		})
	}
}

func TestValidateStruct_PriceEntry(t *testing.T) {
	details := ValidateStruct(priceEntry{})
	require.Len(t, details, 1)
	assert.Equal(t, "isbn", details[0].Field)

	assert.Empty(t, ValidateStruct(priceEntry{ISBN: "123"}))
}
