package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// TestResolvePhonePrecedence - whatsapp ganha de email: se o whatsapp
// casa com o Lead A e o email casaria com o Lead B, Resolve devolve A
func TestResolvePhonePrecedence(t *testing.T) {
	ctx := context.Background()
	mockCRM := new(MockCRMGateway)

	leadA := entity.Lead{ID: 10, FirstName: "João"}
	leadB := entity.Lead{ID: 20, FirstName: "Outro"}

	mockCRM.On("SearchLeads", ctx, "+5511988887777").Return([]entity.Lead{leadA}, nil)
	mockCRM.On("SearchLeads", ctx, "joao@example.com").Return([]entity.Lead{leadB}, nil)

	resolver := NewLeadResolver(mockCRM)
	lead, err := resolver.Resolve(ctx, entity.Contact{
		Whatsapp: "(11) 98888-7777",
		Email:    "joao@example.com",
	})

	assert.NoError(t, err)
	assert.NotNil(t, lead)
	assert.Equal(t, 10, lead.ID)

	// A cascata para no primeiro match: email nem chega a ser buscado
	mockCRM.AssertNotCalled(t, "SearchLeads", ctx, "joao@example.com")
}

// TestResolveFallsThroughToEmail - sem match por telefone, cai no email
func TestResolveFallsThroughToEmail(t *testing.T) {
	ctx := context.Background()
	mockCRM := new(MockCRMGateway)

	mockCRM.On("SearchLeads", ctx, "+5511988887777").Return([]entity.Lead{}, nil)
	mockCRM.On("SearchLeads", ctx, "joao@example.com").Return([]entity.Lead{{ID: 20}}, nil)

	resolver := NewLeadResolver(mockCRM)
	lead, err := resolver.Resolve(ctx, entity.Contact{
		Whatsapp: "11988887777",
		Email:    "joao@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, 20, lead.ID)
}

// TestResolveNoMatch - nenhum sinal casa, devolve nil sem erro
func TestResolveNoMatch(t *testing.T) {
	ctx := context.Background()
	mockCRM := new(MockCRMGateway)
	mockCRM.On("SearchLeads", ctx, mock.Anything).Return([]entity.Lead{}, nil)

	resolver := NewLeadResolver(mockCRM)
	lead, err := resolver.Resolve(ctx, entity.Contact{
		FullName: "João Silva",
		Phone:    "11988887777",
		Email:    "joao@example.com",
	})

	assert.NoError(t, err)
	assert.Nil(t, lead)
}

// TestResolveSkipsEmptyAndDuplicateQueries - campos vazios não geram
// busca, e a chave de fallback igual ao email não busca duas vezes
func TestResolveSkipsEmptyAndDuplicateQueries(t *testing.T) {
	ctx := context.Background()
	mockCRM := new(MockCRMGateway)
	mockCRM.On("SearchLeads", ctx, "joao@example.com").Return([]entity.Lead{}, nil).Once()

	resolver := NewLeadResolver(mockCRM)
	lead, err := resolver.Resolve(ctx, entity.Contact{Email: "joao@example.com"})

	assert.NoError(t, err)
	assert.Nil(t, lead)
	mockCRM.AssertNumberOfCalls(t, "SearchLeads", 1)
}

// TestResolveSearchFailure - erro transitório da busca sobe para o chamador
func TestResolveSearchFailure(t *testing.T) {
	ctx := context.Background()
	mockCRM := new(MockCRMGateway)
	mockCRM.On("SearchLeads", ctx, mock.Anything).Return(nil, errors.New("timeout"))

	resolver := NewLeadResolver(mockCRM)
	lead, err := resolver.Resolve(ctx, entity.Contact{Email: "joao@example.com"})

	assert.Error(t, err)
	assert.Nil(t, lead)
}
