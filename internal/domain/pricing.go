package domain

import "github.com/shopspring/decimal"

// Quote computes the total charge for an interval at the given daily rate.
// Decimal arithmetic keeps monetary totals exact; the day count is always
// whole because intervals carry calendar dates.
func Quote(interval RentalInterval, dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(interval.Days())))
}
