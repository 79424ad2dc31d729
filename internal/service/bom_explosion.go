package service

import (
	"math"

	"quote-service/internal/models"
	"quote-service/internal/shared"
)

// ExplodeBOM aggregates the component quantities required by all lines.
// Requirements for a component shared by several products or lines accumulate.
// A product with no BOM rows contributes nothing. A requirement that does not fit in an int64 is a validation error.
func ExplodeBOM(lines []models.OrderLine, bom map[int64][]models.BOMLine) (map[int64]int64, error) {
	required := make(map[int64]int64)

	for i, line := range lines {
		rows, ok := bom[line.ProductID]
		if !ok {
			return nil, shared.NotFoundError("Product %d not found.", line.ProductID)
		}
		for _, row := range rows {
			qty, ok := mulInt64(row.ComponentQty, line.Quantity)
			if !ok {
				return nil, shared.ValidationError("lines[%d].quantity is too large", i)
			}
			total, ok := addInt64(required[row.ComponentID], qty)
			if !ok {
				return nil, shared.ValidationError("lines[%d].quantity is too large", i)
			}
			required[row.ComponentID] = total
		}
	}

	return required, nil
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func productIDs(lines []models.OrderLine) []int64 {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	return ids
}
