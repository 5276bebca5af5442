package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/madan1440/svlf-software/internal/config"
	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/service"
	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/tests/mocks"
)

func newUserService() (*service.UserService, *mocks.MockUserRepository, *mocks.MockAuditRepository) {
	userRepo := new(mocks.MockUserRepository)
	auditRepo := new(mocks.MockAuditRepository)
	cfg := &config.Config{}
	svc := service.NewUserService(userRepo, auditRepo, nil, cfg)
	return svc, userRepo, auditRepo
}

func TestCreateUserRejectsTakenUsername(t *testing.T) {
	svc, userRepo, _ := newUserService()
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "9876501234").
		Return(&domain.User{ID: 1, Username: "9876501234"}, nil)

	_, err := svc.CreateUser(ctx, "admin", &domain.CreateUserRequest{
		Username: "9876501234",
		Password: "secret1",
		Role:     domain.RoleUser,
	})

	assert.ErrorIs(t, err, customError.ErrUsernameTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, userRepo, auditRepo := newUserService()
	ctx := context.Background()

	userRepo.On("GetByUsername", ctx, "9876501234").Return(nil, sql.ErrNoRows)
	userRepo.On("Create", ctx, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	user, err := svc.CreateUser(ctx, "admin", &domain.CreateUserRequest{
		Username: "9876501234",
		Name:     "Ravi",
		Password: "secret1",
		Role:     domain.RoleUser,
	})

	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	svc, userRepo, _ := newUserService()
	ctx := context.Background()

	actor := &domain.SessionUser{UserID: 5, Username: "admin", Role: domain.RoleAdmin}
	err := svc.DeleteUser(ctx, actor, 5)

	assert.ErrorIs(t, err, customError.ErrSelfDelete)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUserRemovesOtherAccount(t *testing.T) {
	svc, userRepo, auditRepo := newUserService()
	ctx := context.Background()

	actor := &domain.SessionUser{UserID: 5, Username: "admin", Role: domain.RoleAdmin}
	userRepo.On("GetByID", ctx, int64(9)).Return(&domain.User{ID: 9, Username: "clerk"}, nil)
	userRepo.On("Delete", ctx, int64(9)).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	assert.NoError(t, svc.DeleteUser(ctx, actor, 9))
	userRepo.AssertExpectations(t)
}

func TestUpdateUserRehashesOnlyWhenPasswordSupplied(t *testing.T) {
	svc, userRepo, auditRepo := newUserService()
	ctx := context.Background()

	original := &domain.User{ID: 9, Username: "clerk", Name: "Old Name", PasswordHash: "$existing", Role: domain.RoleUser}
	userRepo.On("GetByID", ctx, int64(9)).Return(original, nil)
	userRepo.On("Update", ctx, mock.Anything).Return(nil)
	auditRepo.On("Append", ctx, mock.Anything).Return(nil)

	updated, err := svc.UpdateUser(ctx, "admin", 9, &domain.UpdateUserRequest{
		Name: "New Name",
		Role: domain.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "$existing", updated.PasswordHash)
}
