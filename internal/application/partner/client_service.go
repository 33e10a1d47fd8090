package partner

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRequest creates or updates a client
type ClientRequest struct {
	Name       string `json:"name" binding:"required"`
	Company    string `json:"company"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	ExternalID string `json:"external_id"`
}

// ClientDTO is the API view of a client
type ClientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Company    string    `json:"company,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToClientDTO converts a domain client to its API view
func ToClientDTO(c *partner.Client) ClientDTO {
	return ClientDTO{
		ID:         c.ID,
		Name:       c.Name,
		Company:    c.Company,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		ExternalID: c.ExternalID,
		CreatedAt:  c.CreatedAt,
	}
}

// ClientService handles client CRUD
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClient registers a new client
func (s *ClientService) CreateClient(ctx context.Context, tenantID uuid.UUID, req ClientRequest) (*ClientDTO, error) {
	client, err := partner.NewClient(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	client.Company = req.Company
	client.ExternalID = req.ExternalID
	client.UpdateContact(req.Email, req.Phone, req.Address)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	dto := ToClientDTO(client)
	return &dto, nil
}

// UpdateClient replaces the mutable fields of a client
func (s *ClientService) UpdateClient(ctx context.Context, tenantID, clientID uuid.UUID, req ClientRequest) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	client.Name = req.Name
	client.Company = req.Company
	client.ExternalID = req.ExternalID
	client.UpdateContact(req.Email, req.Phone, req.Address)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	dto := ToClientDTO(client)
	return &dto, nil
}

// GetClient returns one client
func (s *ClientService) GetClient(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	dto := ToClientDTO(client)
	return &dto, nil
}

// ListClients lists clients for a tenant
func (s *ClientService) ListClients(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClientDTO], error) {
	clients, total, err := s.clientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, ToClientDTO(c))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteClient removes a client
func (s *ClientService) DeleteClient(ctx context.Context, tenantID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, client.ID)
}
