package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm-sync/internal/entity"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/integration/crm"
)

// MockCRMGateway
type MockCRMGateway struct {
	mock.Mock
}

func (m *MockCRMGateway) SearchLeads(ctx context.Context, query string) ([]entity.Lead, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockCRMGateway) GetLead(ctx context.Context, id int) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockCRMGateway) CreateLead(ctx context.Context, input crm.LeadInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func (m *MockCRMGateway) UpdateLead(ctx context.Context, id int, input crm.LeadInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockCRMGateway) UpdateLeadTags(ctx context.Context, id int, tagIDs []int) error {
	args := m.Called(ctx, id, tagIDs)
	return args.Error(0)
}

func (m *MockCRMGateway) ListTags(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockCRMGateway) ListOpportunities(ctx context.Context, leadID int) ([]entity.Opportunity, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Opportunity), args.Error(1)
}

func (m *MockCRMGateway) CreateOpportunity(ctx context.Context, funnelID int, input crm.OpportunityInput) (int, error) {
	args := m.Called(ctx, funnelID, input)
	return args.Int(0), args.Error(1)
}

func (m *MockCRMGateway) CreateCustomObject(ctx context.Context, definitionID string, fields map[string]any) (string, error) {
	args := m.Called(ctx, definitionID, fields)
	return args.String(0), args.Error(1)
}

func (m *MockCRMGateway) LinkCustomObject(ctx context.Context, objectID string, leadID int, amount float64) error {
	args := m.Called(ctx, objectID, leadID, amount)
	return args.Error(0)
}

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) IsAlreadySucceeded(ctx context.Context, entityType, entityID, action string, payload any) (bool, error) {
	args := m.Called(ctx, entityType, entityID, action, payload)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Record(ctx context.Context, entry *entity.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockCustomerReader
type MockCustomerReader struct {
	mock.Mock
}

func (m *MockCustomerReader) FindContactsByIDs(ctx context.Context, ids []string) ([]entity.Contact, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Contact), args.Error(1)
}

func (m *MockCustomerReader) UpdateCRMLeadID(ctx context.Context, customerID string, leadID int) error {
	args := m.Called(ctx, customerID, leadID)
	return args.Error(0)
}
