package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Labels(t *testing.T) {
	tests := []struct {
		code  int
		label string
		color Color
	}{
		{1, "Pending", ColorGray},
		{2, "Paid", ColorPurple},
		{3, "Processing", ColorOrange},
		{4, "Shipped", ColorBlue},
		{5, "Delivered", ColorGreen},
		{6, "Cancelled", ColorRed},
		{7, "Refunded", ColorYellow},
		{8, "Failed", ColorRed},
		{9, "Returned", ColorOrange},
		{0, "Unknown", ColorGray},
		{10, "Unknown", ColorGray},
		{-1, "Unknown", ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s := Status(tt.code)
			assert.Equal(t, tt.label, s.Label())
			assert.Equal(t, tt.color, s.Color())
			assert.Equal(t, tt.label != "Unknown", s.Valid())
		})
	}
}

func TestPaymentStatus_Labels(t *testing.T) {
	assert.Equal(t, "Not Paid", PaymentStatus(1).Label())
	assert.Equal(t, "Paid", PaymentStatus(2).Label())
	assert.Equal(t, "Unknown", PaymentStatus(0).Label())
	assert.Equal(t, ColorGreen, PaymentPaid.Color())
	assert.Equal(t, ColorGray, PaymentStatus(3).Color())

	assert.True(t, PaymentNotPaid.Payable())
	assert.False(t, PaymentPaid.Payable())
	assert.False(t, PaymentStatus(0).Payable())
}

func TestAllStatuses(t *testing.T) {
	all := AllStatuses()
	require.Len(t, all, 9)
	for i, s := range all {
		assert.Equal(t, Status(i+1), s)
	}
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent(EventOrderPlaced, 12, OrderPlaced{
		OrderID: 12,
		Email:   "a@example.com",
		Total:   decimal.RequireFromString("19.90"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, EventOrderPlaced, evt.Type)
	assert.Equal(t, "order-12", evt.Key())

	var back OrderPlaced
	require.NoError(t, json.Unmarshal(evt.Data, &back))
	assert.Equal(t, "a@example.com", back.Email)
	assert.True(t, back.Total.Equal(decimal.RequireFromString("19.9")))
}
