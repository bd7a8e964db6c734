// Package service holds the business rules of the seat reservation
// system.  Services take an explicit *model.Principal for the caller,
// talk to storage through the small interfaces in store.go and return the
// errors declared in errors.go.
package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/repository"
	"github.com/iliyamo/office-seat-reservation/internal/utils"
)

// RegisterInput is the registration form.  Confirm is optional; when
// supplied it must equal Password.
type RegisterInput struct {
	Name     string `form:"name" validate:"required,min=2,max=100"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	Confirm  string `form:"confirm_password" validate:"omitempty,eqfield=Password"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	users UserStore
	cost  int
	log   *zap.Logger
}

func NewAuthService(users UserStore, bcryptCost int, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, cost: bcryptCost, log: log}
}

// Register creates a member account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := Validate(in); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, &StorageError{Op: "hash password", Err: err}
	}
	u := &model.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: model.RoleMember}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, translate("create user", err)
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID))
	return u, nil
}

// Authenticate checks an email and password pair.  Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword("", password)
			return nil, ErrInvalidCredentials
		}
		return nil, translate("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ListUsers returns every user; admin only.
func (s *AuthService) ListUsers(ctx context.Context, p *model.Principal) ([]model.User, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}
