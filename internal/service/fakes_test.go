package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"quote-service/internal/models"
	"quote-service/internal/shared"
)

type fakeInventory struct {
	mu         sync.Mutex
	bom        map[int64][]models.BOMLine
	components map[int64]models.Component
	bomCalls   int
	bomErr     error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		bom:        make(map[int64][]models.BOMLine),
		components: make(map[int64]models.Component),
	}
}

func (f *fakeInventory) addProduct(productID int64, rows ...models.BOMLine) {
	for i := range rows {
		rows[i].ProductID = productID
	}
	f.bom[productID] = rows
}

func (f *fakeInventory) addComponent(c models.Component) {
	f.components[c.ID] = c
}

func (f *fakeInventory) GetBOM(ctx context.Context, productIDs []int64) (map[int64][]models.BOMLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bomCalls++
	if f.bomErr != nil {
		return nil, f.bomErr
	}

	ids := append([]int64(nil), productIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make(map[int64][]models.BOMLine, len(ids))
	for _, id := range ids {
		rows, ok := f.bom[id]
		if !ok {
			return nil, shared.NotFoundError("Product %d not found.", id)
		}
		result[id] = append([]models.BOMLine{}, rows...)
	}
	return result, nil
}

func (f *fakeInventory) GetComponents(ctx context.Context, componentIDs []int64) (map[int64]models.Component, error) {
	result := make(map[int64]models.Component, len(componentIDs))
	for _, id := range componentIDs {
		c, ok := f.components[id]
		if !ok {
			return nil, shared.NotFoundError("Component %d not found.", id)
		}
		result[id] = c
	}
	return result, nil
}

func (f *fakeInventory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bomCalls
}

type fakeLocator struct {
	stores    map[string]InventoryStore
	locations []string
	released  int
}

func (l *fakeLocator) Inventory(ctx context.Context, location string) (InventoryStore, func(), error) {
	l.locations = append(l.locations, location)
	inv, ok := l.stores[location]
	if !ok {
		return nil, nil, shared.StoreError("open store", errors.New("unable to open database file"))
	}
	return inv, func() { l.released++ }, nil
}

type fakePublisher struct {
	quotes    []*models.QuoteIssuedEvent
	customers []*models.CustomerCreatedEvent
	err       error
}

func (p *fakePublisher) PublishQuoteIssued(ctx context.Context, event *models.QuoteIssuedEvent) error {
	p.quotes = append(p.quotes, event)
	return p.err
}

func (p *fakePublisher) PublishCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent) error {
	p.customers = append(p.customers, event)
	return p.err
}

type fakeCustomerStore struct {
	customers []models.Customer
	createErr error
}

func (s *fakeCustomerStore) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	out := make([]models.CustomerSummary, len(s.customers))
	for i, c := range s.customers {
		out[i] = models.CustomerSummary{ID: c.ID, Name: c.FirstName + " " + c.LastName, Company: c.Company}
	}
	return out, nil
}

func (s *fakeCustomerStore) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, shared.NotFoundError("Customer %d not found.", id)
}

func (s *fakeCustomerStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = int64(len(s.customers) + 1)
	s.customers = append(s.customers, *c)
	return nil
}

// sensorInventory holds product 1 built from five of component 7, of which two are on hand
func sensorInventory() *fakeInventory {
	inv := newFakeInventory()
	inv.addProduct(1, models.BOMLine{ComponentID: 7, ComponentQty: 5})
	inv.addComponent(models.Component{ID: 7, Name: "Sensor-12ab", QuantityOnHand: 2, LeadTimeDays: 5})
	return inv
}
