package services

import (
	"context"
	"testing"

	"commercehub/internal/common"
	"commercehub/internal/domains"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type TenantServiceTestSuite struct {
	suite.Suite
	tenantRepo *MockTenantRepository
	userRepo   *MockUserRepository
	cache      *MockCacheService
	service    TenantService
	owner      *models.User
	ctx        context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.tenantRepo = &MockTenantRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.cache = NewMockCacheService()
	suite.service = NewTenantService(suite.tenantRepo, suite.userRepo, suite.cache, zap.NewNop())
	suite.owner = &models.User{ID: uuid.New(), TenantID: uuid.New(), Role: models.RoleOwner, IsActive: true}
	suite.ctx = context.Background()

	suite.tenantRepo.Test(suite.T())
	suite.userRepo.Test(suite.T())
}

func (suite *TenantServiceTestSuite) TearDownTest() {
	suite.tenantRepo.AssertExpectations(suite.T())
	suite.userRepo.AssertExpectations(suite.T())
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestRegisterOwner_Success() {
	suite.userRepo.On("GetByEmail", suite.ctx, "owner@example.com").Return(nil, repositories.ErrNotFound)
	suite.tenantRepo.On("CreateWithOwner", suite.ctx,
		mock.MatchedBy(func(tenant *models.Tenant) bool {
			return tenant.BusinessName == "City Pharmacy" &&
				len(tenant.DomainCodes) == 2 &&
				tenant.DomainCodes[0] == domains.Pharmacy &&
				tenant.IsActive
		}),
		mock.MatchedBy(func(owner *models.User) bool {
			return owner.Role == models.RoleOwner && owner.Email == "owner@example.com" && owner.IsActive
		}),
	).Return(nil)

	tenant, owner, err := suite.service.RegisterOwner(suite.ctx, &RegisterOwnerRequest{
		BusinessName: " City Pharmacy ",
		DomainCodes:  []string{"Pharmacy", "retail", "pharmacy"}, // case and dupes normalized
		Email:        "Owner@Example.com",
		Password:     "long-enough-pass",
		FirstName:    "Ravi",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, owner.TenantID)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("long-enough-pass")))
}

func (suite *TenantServiceTestSuite) TestRegisterOwner_UnknownDomainCode() {
	_, _, err := suite.service.RegisterOwner(suite.ctx, &RegisterOwnerRequest{
		BusinessName: "Oddity",
		DomainCodes:  []string{"plumbing"},
		Email:        "owner@example.com",
		Password:     "long-enough-pass",
		FirstName:    "Ravi",
	})
	assertAppCode(suite.T(), err, common.CodeValidation)
}

func (suite *TenantServiceTestSuite) TestRegisterOwner_DuplicateEmail() {
	suite.userRepo.On("GetByEmail", suite.ctx, "owner@example.com").Return(&models.User{Email: "owner@example.com"}, nil)

	_, _, err := suite.service.RegisterOwner(suite.ctx, &RegisterOwnerRequest{
		BusinessName: "City Pharmacy",
		DomainCodes:  []string{domains.Pharmacy},
		Email:        "owner@example.com",
		Password:     "long-enough-pass",
		FirstName:    "Ravi",
	})
	assertAppCode(suite.T(), err, common.CodeConflict)
}

func (suite *TenantServiceTestSuite) TestUpdateTenant_DomainCodesReplaced() {
	tenant := &models.Tenant{
		ID:           suite.owner.TenantID,
		BusinessName: "City Pharmacy",
		DomainCodes:  []string{domains.Pharmacy},
		IsActive:     true,
	}
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil)
	suite.tenantRepo.On("Update", suite.ctx, mock.MatchedBy(func(updated *models.Tenant) bool {
		return len(updated.DomainCodes) == 2 && updated.DomainCodes[1] == domains.Retail
	})).Return(nil)

	updated, err := suite.service.UpdateTenant(suite.ctx, suite.owner, tenant.ID, &UpdateTenantRequest{
		DomainCodes: []string{domains.Pharmacy, domains.Retail},
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), updated.DomainCodes, 2)
}

func (suite *TenantServiceTestSuite) TestUpdateTenant_ForeignActorSeesNotFound() {
	tenant := &models.Tenant{
		ID:           uuid.New(), // not the actor's tenant
		BusinessName: "City Pharmacy",
		DomainCodes:  []string{domains.Pharmacy},
		IsActive:     true,
	}
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil)

	name := "Hijacked"
	_, err := suite.service.UpdateTenant(suite.ctx, suite.owner, tenant.ID, &UpdateTenantRequest{
		BusinessName: &name,
	})
	assertAppCode(suite.T(), err, common.CodeNotFound)
}

func (suite *TenantServiceTestSuite) TestUpdateTenant_DomainChangeDropsCachedProducts() {
	tenant := &models.Tenant{
		ID:           suite.owner.TenantID,
		BusinessName: "City Pharmacy",
		DomainCodes:  []string{domains.Pharmacy},
		IsActive:     true,
	}
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil)
	suite.tenantRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Tenant")).Return(nil)

	product := &models.Product{ID: uuid.New(), TenantID: tenant.ID, Name: "Paracetamol"}
	require.NoError(suite.T(), suite.cache.SetProduct(suite.ctx, tenant.ID, product, 0))

	_, err := suite.service.UpdateTenant(suite.ctx, suite.owner, tenant.ID, &UpdateTenantRequest{
		DomainCodes: []string{domains.Retail},
	})
	require.NoError(suite.T(), err)

	cached, err := suite.cache.GetProduct(suite.ctx, tenant.ID, product.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), cached, "cached products serialized under the old schema must be invalidated")
}
