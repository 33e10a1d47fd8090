package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Entity        = (*BaseEntity)(nil)
	_ AggregateRoot = (*BaseAggregateRoot)(nil)
	_ AggregateRoot = (*TenantAggregateRoot)(nil)
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	assert.Equal(t, e.ID, e.GetID())
	assert.Equal(t, e.CreatedAt, e.GetCreatedAt())
	assert.Equal(t, e.UpdatedAt, e.GetUpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	e := NewBaseEntity()
	created := e.CreatedAt
	time.Sleep(time.Millisecond)

	e.Touch()

	assert.Equal(t, created, e.CreatedAt)
	assert.True(t, e.UpdatedAt.After(created))
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	a := NewBaseAggregateRoot()
	require.Empty(t, a.GetDomainEvents())

	event := NewBaseDomainEvent("deal.created", "deal", a.ID, uuid.New())
	a.AddDomainEvent(&event)
	require.Len(t, a.GetDomainEvents(), 1)

	a.ClearDomainEvents()
	assert.Empty(t, a.GetDomainEvents())
}

func TestBaseAggregateRoot_Version(t *testing.T) {
	a := NewBaseAggregateRoot()
	assert.Equal(t, 1, a.GetVersion())

	a.IncrementVersion()
	assert.Equal(t, 2, a.GetVersion())
}
