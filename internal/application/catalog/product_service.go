package catalog

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest creates or updates a catalog product
type ProductRequest struct {
	SKU          string           `json:"sku"`
	Title        string           `json:"title" binding:"required"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	DefaultCost  *decimal.Decimal `json:"default_cost"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
}

// ProductDTO is the API view of a product
type ProductDTO struct {
	ID           uuid.UUID        `json:"id"`
	SKU          string           `json:"sku,omitempty"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Category     string           `json:"category,omitempty"`
	DefaultCost  *decimal.Decimal `json:"default_cost,omitempty"`
	DefaultPrice *decimal.Decimal `json:"default_price,omitempty"`
	Currency     string           `json:"currency"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ToProductDTO converts a domain product to its API view
func ToProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		SKU:          p.SKU,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		DefaultCost:  p.DefaultCost,
		DefaultPrice: p.DefaultPrice,
		Currency:     string(p.Currency),
		CreatedAt:    p.CreatedAt,
	}
}

// ProductService handles catalog CRUD
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, tenantID uuid.UUID, req ProductRequest) (*ProductDTO, error) {
	product, err := catalog.NewProduct(tenantID, req.Title)
	if err != nil {
		return nil, err
	}
	if err := applyProductFields(product, req); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := ToProductDTO(product)
	return &dto, nil
}

// UpdateProduct replaces the mutable fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, tenantID, productID uuid.UUID, req ProductRequest) (*ProductDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	product.Title = req.Title
	if err := applyProductFields(product, req); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	dto := ToProductDTO(product)
	return &dto, nil
}

// GetProduct returns one product
func (s *ProductService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	dto := ToProductDTO(product)
	return &dto, nil
}

// ListProducts lists the tenant catalog
func (s *ProductService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductDTO], error) {
	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToProductDTO(p))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

func applyProductFields(product *catalog.Product, req ProductRequest) error {
	product.SKU = req.SKU
	product.Description = req.Description
	product.Category = req.Category
	if req.DefaultCost != nil {
		if err := product.SetDefaultCost(*req.DefaultCost); err != nil {
			return err
		}
	}
	if req.DefaultPrice != nil {
		if err := product.SetDefaultPrice(*req.DefaultPrice); err != nil {
			return err
		}
	}
	return nil
}
