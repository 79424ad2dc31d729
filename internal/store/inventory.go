package store

import (
	"context"
	"sort"

	"quote-service/internal/models"
	"quote-service/internal/shared"
)

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := s.in("SELECT id, product_name, price FROM products WHERE id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, shared.StoreError("select products", err)
	}
	return products, nil
}

// GetBOM retrieves the bill of materials for each product.
// Every product must exist; a product without BOM rows maps to an empty slice.
func (s *Store) GetBOM(ctx context.Context, productIDs []int64) (map[int64][]models.BOMLine, error) {
	ids := uniqueIDs(productIDs)
	bom := make(map[int64][]models.BOMLine, len(ids))
	if len(ids) == 0 {
		return bom, nil
	}

	products, err := s.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, shared.NotFoundError("Product %d not found.", id)
		}
		bom[id] = []models.BOMLine{}
	}

	query, args, err := s.in(`
		SELECT product_id, component_id, component_qty
		FROM bill_of_materials
		WHERE product_id IN (?)
		ORDER BY product_id, component_id`, ids)
	if err != nil {
		return nil, err
	}

	var rows []models.BOMLine
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, shared.StoreError("select bill of materials", err)
	}
	for _, row := range rows {
		bom[row.ProductID] = append(bom[row.ProductID], row)
	}

	return bom, nil
}

// GetComponents retrieves components by IDs in a single round trip
func (s *Store) GetComponents(ctx context.Context, componentIDs []int64) (map[int64]models.Component, error) {
	ids := uniqueIDs(componentIDs)
	components := make(map[int64]models.Component, len(ids))
	if len(ids) == 0 {
		return components, nil
	}

	query, args, err := s.in(`
		SELECT id, supplier_id, component_name, quantity_on_hand, unit_cost, lead_time_days, reorder_point
		FROM components
		WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var rows []models.Component
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, shared.StoreError("select components", err)
	}
	for _, c := range rows {
		components[c.ID] = c
	}
	for _, id := range ids {
		if _, ok := components[id]; !ok {
			return nil, shared.NotFoundError("Component %d not found.", id)
		}
	}

	return components, nil
}

// ListProductAvailability returns every product with the number of units buildable from stock.
// Products without BOM rows report zero units.
func (s *Store) ListProductAvailability(ctx context.Context) ([]models.ProductAvailability, error) {
	query := `
		SELECT
			p.id AS product_id,
			p.product_name,
			CASE
				WHEN COUNT(bom.component_id) = 0 THEN 0
				ELSE MIN(c.quantity_on_hand / bom.component_qty)
			END AS units_on_hand
		FROM products p
		LEFT JOIN bill_of_materials bom ON bom.product_id = p.id
		LEFT JOIN components c ON c.id = bom.component_id
		GROUP BY p.id, p.product_name
		ORDER BY p.id ASC`

	products := []models.ProductAvailability{}
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		return nil, shared.StoreError("select product availability", err)
	}
	return products, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
