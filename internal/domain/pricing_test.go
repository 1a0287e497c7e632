package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	rate := decimal.RequireFromString("50.00")
	threeDays := interval("2024-06-01", "2024-06-04")

	total := Quote(threeDays, rate)
	assert.True(t, total.Equal(decimal.RequireFromString("150.00")),
		"expected exactly 150.00, got %s", total)
}

func TestQuoteFractionalRateStaysExact(t *testing.T) {
	rate := decimal.RequireFromString("33.33")
	sevenDays := interval("2024-06-01", "2024-06-08")

	total := Quote(sevenDays, rate)
	assert.Equal(t, "233.31", total.StringFixed(2))
}

func TestQuoteSingleDay(t *testing.T) {
	rate := decimal.RequireFromString("89.90")
	oneDay := interval("2024-06-01", "2024-06-02")

	assert.Equal(t, "89.90", Quote(oneDay, rate).StringFixed(2))
}
