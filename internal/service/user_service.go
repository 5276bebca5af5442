package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/madan1440/svlf-software/internal/config"
	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/repository"
	customError "github.com/madan1440/svlf-software/pkg/errors"
)

// UserService owns accounts and sessions. Sessions are opaque tokens
// stored in Redis with a TTL, so a restart of the server keeps active
// logins alive and an expired key is simply gone.
type UserService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	redis     *redis.Client
	config    *config.Config
}

func NewUserService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		redis:     redisClient,
		config:    cfg,
	}
}

// Authenticate verifies credentials and issues a session token.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInvalidCredentials()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, customError.WrapInvalidCredentials()
	}

	session := &domain.SessionUser{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}

	token := uuid.NewString()
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}

	if err = s.redis.Set(ctx, sessionKey(token), payload, s.config.GetSessionTTL()).Err(); err != nil {
		return nil, customError.WrapCacheError(err)
	}

	logAction(ctx, s.auditRepo, user.Username, "login", fmt.Sprintf("user:%d", user.ID))
	return &domain.LoginResponse{Token: token, User: session}, nil
}

// ResolveSession looks up the identity behind a token.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*domain.SessionUser, error) {
	payload, err := s.redis.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, customError.WrapSessionExpired()
		}
		return nil, customError.WrapCacheError(err)
	}

	var session domain.SessionUser
	if err = json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, customError.WrapSessionExpired()
	}

	return &session, nil
}

// Logout discards the session token. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, actor *domain.SessionUser, token string) error {
	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return customError.WrapCacheError(err)
	}

	logAction(ctx, s.auditRepo, actor.Username, "logout", fmt.Sprintf("user:%d", actor.UserID))
	return nil
}

// CreateUser adds an operator account. Admin only; enforced at the
// handler layer.
func (s *UserService) CreateUser(ctx context.Context, actor string, request *domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, request.Username); err == nil {
		return nil, customError.WrapUsernameTaken(request.Username)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     request.Username,
		Name:         request.Name,
		PasswordHash: string(hash),
		Role:         request.Role,
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor, "create_user", user.Username)
	return user, nil
}

// UpdateUser edits name and role, and rehashes the password when a new
// one is supplied.
func (s *UserService) UpdateUser(ctx context.Context, actor string, id int64, request *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(id)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	user.Name = request.Name
	user.Role = request.Role

	if request.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		user.PasswordHash = string(hash)
	}

	if err = s.userRepo.Update(ctx, user); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor, "edit_user", user.Username)
	return user, nil
}

// DeleteUser removes an account. Deleting yourself is refused so the
// system always retains at least the acting admin.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.SessionUser, id int64) error {
	if actor.UserID == id {
		return customError.WrapSelfDelete()
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapUserNotFound(id)
		}
		return customError.WrapDatabaseError(err)
	}

	if err = s.userRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	logAction(ctx, s.auditRepo, actor.Username, "delete_user", user.Username)
	return nil
}

// RecentActivity returns the newest audit entries for the admin view.
func (s *UserService) RecentActivity(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, err := s.auditRepo.List(ctx, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return users, nil
}

// SeedAdmin creates the bootstrap admin account when the users table
// is empty and credentials are configured. Idempotent across restarts.
func (s *UserService) SeedAdmin(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if count > 0 {
		return nil
	}

	if s.config.Auth.AdminUsername == "" || s.config.Auth.AdminPassword == "" {
		log.Warn().Msg("users table is empty and no admin credentials configured, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     s.config.Auth.AdminUsername,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}

	if err = s.userRepo.Create(ctx, admin); err != nil {
		return customError.WrapDatabaseError(err)
	}

	log.Info().Str("username", admin.Username).Msg("seeded initial admin account")
	return nil
}

func sessionKey(token string) string {
	return "session:" + token
}
