package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/catalog"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

type memoryRepo struct {
	products  map[int64]catalog.Product
	suppliers map[int64]catalog.Supplier
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:  make(map[int64]catalog.Product),
		suppliers: make(map[int64]catalog.Supplier),
		nextID:    1,
	}
}

func (m *memoryRepo) ListProducts(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.products {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryRepo) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	return p, nil
}

func (m *memoryRepo) UpdateProduct(ctx context.Context, id int64, p catalog.Product) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *memoryRepo) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	var out []catalog.Supplier
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryRepo) GetSupplier(ctx context.Context, id int64) (catalog.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return catalog.Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) CreateSupplier(ctx context.Context, s catalog.Supplier) (catalog.Supplier, error) {
	s.ID = m.nextID
	m.nextID++
	m.suppliers[s.ID] = s
	return s, nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())

	_, err := svc.CreateProduct(context.Background(), catalog.Product{Category: "Frais"})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = svc.CreateProduct(context.Background(), catalog.Product{Name: "Lait"})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = svc.CreateProduct(context.Background(), catalog.Product{Name: "Lait", Category: "Frais", StockAlertThreshold: -1})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)
}

func TestCreateAndGetProduct(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())

	created, err := svc.CreateProduct(context.Background(), catalog.Product{
		Name:                "Lait demi-écrémé",
		Category:            "Frais",
		StockAlertThreshold: 12,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Lait demi-écrémé", got.Name)
	require.Equal(t, 12, got.StockAlertThreshold)
}

func TestUpdateProductThreshold(t *testing.T) {
	repo := newMemoryRepo()
	svc := catalog.NewService(repo)

	created, err := svc.CreateProduct(context.Background(), catalog.Product{Name: "Yaourt", Category: "Frais", StockAlertThreshold: 5})
	require.NoError(t, err)

	created.StockAlertThreshold = 20
	require.NoError(t, svc.UpdateProduct(context.Background(), created.ID, created))

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 20, got.StockAlertThreshold)
}

func TestGetProductNotFound(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())

	_, err := svc.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateSupplierRequiresName(t *testing.T) {
	svc := catalog.NewService(newMemoryRepo())

	_, err := svc.CreateSupplier(context.Background(), catalog.Supplier{Contact: "Mme Diop"})
	require.ErrorIs(t, err, catalog.ErrInvalidSupplier)

	created, err := svc.CreateSupplier(context.Background(), catalog.Supplier{Name: "Laiterie du Nord"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}
