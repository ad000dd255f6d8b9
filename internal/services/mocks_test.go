package services

import (
	"context"
	"strings"
	"time"

	"commercehub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error {
	args := m.Called(ctx, tenant, owner)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *models.StaffInvite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockInviteRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffInvite, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffInvite), args.Error(1)
}

func (m *MockInviteRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.StaffInvite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffInvite), args.Error(1)
}

func (m *MockInviteRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.StaffInvite, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.StaffInvite), args.Error(1)
}

func (m *MockInviteRepository) HasPending(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockInviteRepository) ConsumeWithUser(ctx context.Context, token uuid.UUID, user *models.User) error {
	args := m.Called(ctx, token, user)
	return args.Error(0)
}

func (m *MockInviteRepository) DeletePending(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInviteRepository) DeleteConsumedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, tenantID uuid.UUID, activeOnly bool, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID, activeOnly, limit, offset)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) SetImageObject(ctx context.Context, tenantID, id uuid.UUID, object string) error {
	args := m.Called(ctx, tenantID, id, object)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCacheService is an in-memory CacheService for tests. Unlike the
// mock repositories it is a real fake: auth tests exercise the full
// store/rotate/revoke flow against it.
type MockCacheService struct {
	products map[string]*models.Product
	strings  map[string]string
	counters map[string]int
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		products: make(map[string]*models.Product),
		strings:  make(map[string]string),
		counters: make(map[string]int),
	}
}

func (m *MockCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	return m.products[tenantID.String()+":"+productID.String()], nil
}

func (m *MockCacheService) SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, ttl time.Duration) error {
	m.products[tenantID.String()+":"+product.ID.String()] = product
	return nil
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	delete(m.products, tenantID.String()+":"+productID.String())
	return nil
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	prefix := tenantID.String() + ":"
	for key := range m.products {
		if strings.HasPrefix(key, prefix) {
			delete(m.products, key)
		}
	}
	return nil
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.counters[key]++
	return m.counters[key] > limit, nil
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.strings[key] = value
	return nil
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	return m.strings[key], nil
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	delete(m.strings, key)
	return nil
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return nil
}
