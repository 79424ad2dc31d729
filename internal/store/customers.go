package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"quote-service/internal/models"
	"quote-service/internal/shared"
)

// ListCustomers retrieves all customers with their order counts and total order value
func (s *Store) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	query := `
		SELECT
			u.id AS customer_id,
			u.first_name,
			u.last_name,
			u.company,
			COUNT(oh.id) AS orders_count,
			COALESCE(SUM(oh.order_total), 0) AS total_order_value
		FROM users u
		LEFT JOIN order_headers oh ON oh.user_id = u.id
		GROUP BY u.id, u.first_name, u.last_name, u.company
		ORDER BY u.id ASC`

	customers := []models.CustomerSummary{}
	if err := s.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, shared.StoreError("select customers", err)
	}
	for i := range customers {
		customers[i].Name = strings.TrimSpace(customers[i].FirstName + " " + customers[i].LastName)
	}
	return customers, nil
}

// GetCustomer retrieves a customer by ID
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, s.db.Rebind(`
		SELECT id, first_name, last_name, title, company, address, city, state, zipcode, phone_number
		FROM users
		WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFoundError("Customer %d not found.", id)
	}
	if err != nil {
		return nil, shared.StoreError("select customer", err)
	}
	return &customer, nil
}

// CreateCustomer inserts a customer and sets its generated ID
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	query := s.db.Rebind(`
		INSERT INTO users (first_name, last_name, title, company, address, city, state, zipcode, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.GetContext(ctx, &c.ID, query,
		c.FirstName, c.LastName, c.Title, c.Company, c.Address, c.City, c.State, c.Zipcode, c.PhoneNumber)
	return shared.StoreError("insert customer", err)
}
