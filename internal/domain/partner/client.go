package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client represents a customer organization or person deals are made with
type Client struct {
	shared.TenantAggregateRoot
	Name       string `gorm:"size:255;not null"`
	Company    string `gorm:"size:255"`
	Email      string `gorm:"size:255;index"`
	Phone      string `gorm:"size:64"`
	Address    string `gorm:"size:512"`
	ExternalID string `gorm:"size:128;index"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}, nil
}

// UpdateContact updates the client contact details
func (c *Client) UpdateContact(email, phone, address string) {
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// FindAllForTenant returns a page of clients for a tenant along with
	// the total match count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Client, int64, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// Delete deletes a client
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForTenant checks whether a client exists within a tenant
	ExistsForTenant(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
