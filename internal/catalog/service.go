package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProduct flags a product failing business validation.
var ErrInvalidProduct = errors.New("invalid product")

// ErrInvalidSupplier flags a supplier failing business validation.
var ErrInvalidSupplier = errors.New("invalid supplier")

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context, filters ListFilters) ([]Product, error) {
	return s.repo.ListProducts(ctx, filters)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: identifiant invalide", ErrInvalidProduct)
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.CreateProduct(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, p Product) error {
	if id <= 0 {
		return fmt.Errorf("%w: identifiant invalide", ErrInvalidProduct)
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, id, p)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: identifiant invalide", ErrInvalidSupplier)
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, sup Supplier) (Supplier, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return Supplier{}, fmt.Errorf("%w: nom requis", ErrInvalidSupplier)
	}
	return s.repo.CreateSupplier(ctx, sup)
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: nom requis", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: catégorie requise", ErrInvalidProduct)
	}
	if p.StockAlertThreshold < 0 {
		return fmt.Errorf("%w: seuil d'alerte négatif", ErrInvalidProduct)
	}
	return nil
}
