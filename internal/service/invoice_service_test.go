package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtendedAmount(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		price    float64
		discount bool
		want     float64
	}{
		{"whole dollars", 2, 45, false, 90},
		{"fractional quantity", 1.5, 85, false, 127.5},
		{"rounds half up to cents", 3, 33.335, false, 100.01},
		{"rounds down to cents", 1, 19.994, false, 19.99},
		{"discount negates", 1, 25, true, -25},
		{"discount rounds before negating", 3, 33.335, true, -100.01},
		{"zero quantity", 0, 95, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ExtendedAmount(tt.quantity, tt.price, tt.discount), 1e-9)
		})
	}
}

func TestPersistLineItem(t *testing.T) {
	tests := []struct {
		description string
		want        bool
	}{
		{"Standard tow", true},
		{"DISCOUNT", false},
		{"discount", false},
		{"  Discount  ", false},
		{"", false},
		{"   ", false},
		{"Discounted mileage", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PersistLineItem(tt.description), "description %q", tt.description)
	}
}
