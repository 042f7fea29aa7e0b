// Package pricing derives order totals and the loyalty points they are worth.
package pricing

import (
	"restaurant-pos/internal/domain"

	"github.com/shopspring/decimal"
)

// Line is one priced order line.
type Line struct {
	Quantity int
	Price    decimal.Decimal
}

// Total sums quantity x price over lines and rounds to cents, half away from zero.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.Round(2)
}

// OrderTotal prices an order's items at the menu prices they currently carry.
func OrderTotal(items []domain.OrderItem) decimal.Decimal {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{Quantity: it.Quantity, Price: it.Price})
	}
	return Total(lines)
}

// PointsPolicy converts a completed order's total into loyalty points.
type PointsPolicy struct {
	PerUnit decimal.Decimal
}

func DefaultPointsPolicy() PointsPolicy { return PointsPolicy{PerUnit: decimal.NewFromInt(1)} }

// PointsFor returns floor(total x PerUnit), never negative.
func (p PointsPolicy) PointsFor(total decimal.Decimal) int64 {
	pts := total.Mul(p.PerUnit).Floor()
	if pts.Sign() <= 0 {
		return 0
	}
	return pts.IntPart()
}
