package identity

import (
	"context"
	"testing"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSuperAdminSeed() SuperAdminSeed {
	return SuperAdminSeed{
		ServiceNumber: "NCS1001",
		Name:          "Super Admin",
		Email:         "superadmin@customs.gov.ng",
		Password:      "ChangeMe1234",
	}
}

func TestEnsureSuperAdmin_SeedsFirstAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByRole", mock.Anything, identity.RoleSuperAdmin).Return(false, nil)

	var seeded *identity.User
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
		Run(func(args mock.Arguments) {
			seeded = args.Get(1).(*identity.User)
		}).Return(nil)

	err := EnsureSuperAdmin(context.Background(), userRepo, testSuperAdminSeed(), zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, seeded)
	assert.Equal(t, "NCS1001", seeded.ServiceNumber)
	assert.Equal(t, identity.RoleSuperAdmin, seeded.Role)
	assert.True(t, seeded.Verified, "the seeded account must be able to log in immediately")
	assert.True(t, seeded.VerifyPassword("ChangeMe1234"))
	assert.Nil(t, seeded.CommandLocationID)
	assert.Nil(t, seeded.CreatedBy)
	assert.Empty(t, seeded.GetDomainEvents())
	userRepo.AssertExpectations(t)
}

func TestEnsureSuperAdmin_SkipsWhenPresent(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByRole", mock.Anything, identity.RoleSuperAdmin).Return(true, nil)

	err := EnsureSuperAdmin(context.Background(), userRepo, testSuperAdminSeed(), zap.NewNop())

	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEnsureSuperAdmin_ToleratesConcurrentSeed(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByRole", mock.Anything, identity.RoleSuperAdmin).Return(false, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).
		Return(shared.ErrAlreadyExists)

	err := EnsureSuperAdmin(context.Background(), userRepo, testSuperAdminSeed(), zap.NewNop())

	assert.NoError(t, err)
}

func TestEnsureSuperAdmin_RejectsInvalidSeed(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("ExistsByRole", mock.Anything, identity.RoleSuperAdmin).Return(false, nil)

	seed := testSuperAdminSeed()
	seed.Password = "short"

	err := EnsureSuperAdmin(context.Background(), userRepo, seed, zap.NewNop())

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
