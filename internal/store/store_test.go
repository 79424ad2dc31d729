package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = `
INSERT INTO suppliers (id, supplier_name) VALUES (1, 'Acme Components');
INSERT INTO products (id, product_name, price) VALUES (1, 'Alpha Widget', 49.99);
INSERT INTO products (id, product_name, price) VALUES (2, 'Nova Gadget', 120);
INSERT INTO products (id, product_name, price) VALUES (3, 'Orion Kit', 10);
INSERT INTO components (id, supplier_id, component_name, quantity_on_hand, unit_cost, lead_time_days, reorder_point)
	VALUES (7, 1, 'Sensor-12ab', 2, 3.50, 5, 10);
INSERT INTO components (id, supplier_id, component_name, quantity_on_hand, unit_cost, lead_time_days, reorder_point)
	VALUES (8, 1, 'Bolt-99zz', 100, 0.25, 3, 20);
INSERT INTO components (id, supplier_id, component_name, quantity_on_hand, unit_cost, lead_time_days, reorder_point)
	VALUES (9, 1, 'Gear-01cd', 30, 12, 14, 5);
INSERT INTO bill_of_materials (product_id, component_id, component_qty) VALUES (1, 7, 5);
INSERT INTO bill_of_materials (product_id, component_id, component_qty) VALUES (1, 8, 4);
INSERT INTO bill_of_materials (product_id, component_id, component_qty) VALUES (2, 8, 10);
INSERT INTO bill_of_materials (product_id, component_id, component_qty) VALUES (2, 9, 3);
INSERT INTO users (id, first_name, last_name, title, company, address, city, state, zipcode, phone_number)
	VALUES (1, 'Ada', 'Lovelace', 'Engineer', 'Analytical Ltd', '1 Main St', 'Boston', 'MA', '02110', '555-0100');
INSERT INTO users (id, first_name, last_name, title, company, address, city, state, zipcode, phone_number)
	VALUES (2, 'Alan', 'Turing', 'Researcher', 'Bletchley Co', '2 Park Rd', 'Austin', 'TX', '73301', '555-0101');
INSERT INTO order_headers (user_id, order_date, order_total, status) VALUES (1, '2026-01-02', 100.50, 'DRAFT');
INSERT INTO order_headers (user_id, order_date, order_total, status) VALUES (1, '2026-01-09', 20, 'DRAFT')
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newSeededStore(t, ":memory:")
}

func newSeededStore(t *testing.T, location string) *Store {
	t.Helper()

	s, err := NewStore(DriverSQLite, location)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	for _, stmt := range strings.Split(fixtures, ";") {
		_, err = s.GetDB().ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	return s
}

func TestGetBOM(t *testing.T) {
	s := newTestStore(t)

	bom, err := s.GetBOM(context.Background(), []int64{2, 1, 3, 1})
	require.NoError(t, err)
	require.Len(t, bom, 3)

	assert.Equal(t, []models.BOMLine{
		{ProductID: 1, ComponentID: 7, ComponentQty: 5},
		{ProductID: 1, ComponentID: 8, ComponentQty: 4},
	}, bom[1])
	assert.Len(t, bom[2], 2)
	assert.NotNil(t, bom[3])
	assert.Empty(t, bom[3])
}

func TestGetBOMUnknownProduct(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBOM(context.Background(), []int64{1, 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Product 42 not found.", err.Error())
}

func TestGetComponents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	components, err := s.GetComponents(ctx, []int64{9, 7})
	require.NoError(t, err)
	require.Len(t, components, 2)

	sensor := components[7]
	assert.Equal(t, "Sensor-12ab", sensor.Name)
	assert.Equal(t, int64(2), sensor.QuantityOnHand)
	assert.Equal(t, 5, sensor.LeadTimeDays)
	assert.True(t, decimal.RequireFromString("3.5").Equal(sensor.UnitCost))

	_, err = s.GetComponents(ctx, []int64{7, 70})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Component 70 not found.", err.Error())
}

func TestListProductAvailability(t *testing.T) {
	s := newTestStore(t)

	products, err := s.ListProductAvailability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.ProductAvailability{
		{ProductID: 1, ProductName: "Alpha Widget", UnitsOnHand: 0},
		{ProductID: 2, ProductName: "Nova Gadget", UnitsOnHand: 10},
		{ProductID: 3, ProductName: "Orion Kit", UnitsOnHand: 0},
	}, products)
}

func TestCustomers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := &models.Customer{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Title:       "Admiral",
		Company:     "Navy Labs",
		Address:     "3 Harbor Way",
		City:        "Arlington",
		State:       "VA",
		Zipcode:     "22201",
		PhoneNumber: "555-0102",
	}
	require.NoError(t, s.CreateCustomer(ctx, customer))
	assert.Equal(t, int64(3), customer.ID)

	got, err := s.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, got)

	_, err = s.GetCustomer(ctx, 999999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Customer 999999 not found.", err.Error())

	summaries, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "Ada Lovelace", summaries[0].Name)
	assert.Equal(t, int64(2), summaries[0].OrdersCount)
	assert.True(t, decimal.RequireFromString("120.5").Equal(summaries[0].TotalOrderValue))

	assert.Equal(t, "Grace Hopper", summaries[2].Name)
	assert.Equal(t, int64(0), summaries[2].OrdersCount)
	assert.True(t, summaries[2].TotalOrderValue.IsZero())
}

func TestInsertAuditEntryIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := &models.AuditEntry{
		EventID:   "evt-1",
		EventType: models.EventTypeCustomerCreated,
		Entity:    "customer",
		EntityID:  "3",
		Payload:   `{"customer_id":3}`,
	}
	require.NoError(t, s.InsertAuditEntry(ctx, entry))
	require.NoError(t, s.InsertAuditEntry(ctx, entry))

	entries, err := s.ListAuditEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "evt-1", entries[0].EventID)
	assert.Equal(t, "customer", entries[0].Entity)
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "data", "inventory.sqlite")

	r := NewRegistry(DriverSQLite, defaultPath, true)
	defer r.Close()
	ctx := context.Background()

	def, err := r.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultPath, def.Location())

	again, release, err := r.Open(ctx, defaultPath)
	require.NoError(t, err)
	release()
	assert.Same(t, def, again)

	empty, release, err := r.Open(ctx, "")
	require.NoError(t, err)
	release()
	assert.Same(t, def, empty)
	assert.NoError(t, def.Ping(ctx))

	products, err := def.ListProductAvailability(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.NoError(t, r.Close())
}

func TestRegistryClosesOverrideStores(t *testing.T) {
	dir := t.TempDir()
	otherPath := filepath.Join(dir, "other.sqlite")
	other := newSeededStore(t, otherPath)
	require.NoError(t, other.Close())

	r := NewRegistry(DriverSQLite, filepath.Join(dir, "default.sqlite"), true)
	defer r.Close()
	ctx := context.Background()

	var opened []*Store
	for i := 0; i < 5; i++ {
		s, release, err := r.Open(ctx, otherPath)
		require.NoError(t, err)

		products, err := s.ListProductAvailability(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 3)

		release()
		release()
		opened = append(opened, s)
	}

	assert.NotSame(t, opened[0], opened[1])
	for _, s := range opened {
		assert.Error(t, s.Ping(ctx))
	}
	assert.Zero(t, r.overrides)
	assert.Nil(t, r.def)
}

func TestSQLitePoolSize(t *testing.T) {
	memory := newTestStore(t)
	assert.Equal(t, 1, memory.GetDB().Stats().MaxOpenConnections)

	file := newSeededStore(t, filepath.Join(t.TempDir(), "pool.sqlite"))
	assert.Equal(t, sqliteMaxOpenConns, file.GetDB().Stats().MaxOpenConnections)

	var mode string
	require.NoError(t, file.GetDB().Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)
}

func TestOverlappingReadsOnFileStore(t *testing.T) {
	s := newSeededStore(t, filepath.Join(t.TempDir(), "overlap.sqlite"))
	ctx := context.Background()

	rows, err := s.GetDB().QueryxContext(ctx, "SELECT id FROM components ORDER BY id")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	components, err := s.GetComponents(readCtx, []int64{7, 9})
	require.NoError(t, err)
	assert.Len(t, components, 2)

	bom, err := s.GetBOM(readCtx, []int64{2})
	require.NoError(t, err)
	assert.Len(t, bom[2], 2)
}

func TestInQueryErrorsAreStoreErrors(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.in("SELECT id FROM products WHERE id IN (?)", []int64{})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrStore)
}

func TestNewStoreUnsupportedDriver(t *testing.T) {
	_, err := NewStore("oracle", "somewhere")
	assert.Error(t, err)
}
