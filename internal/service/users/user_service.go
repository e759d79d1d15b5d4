package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, actor domain.User, id int64, input UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}

type TokenIssuer interface {
	Issue(u domain.User) (auth.Token, error)
}

// RegisterInput passwords are capped at 72 bytes, the most bcrypt reads.
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone,omitempty" binding:"omitempty,max=32"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	UserType string `json:"user_type" binding:"required,oneof=client enterprise"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateInput struct {
	Name  *string `json:"name,omitempty" binding:"omitnil,min=1,max=255"`
	Phone *string `json:"phone,omitempty" binding:"omitnil,max=32"`
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token auth.Token   `json:"token"`
}

type UserService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	log        *logger.Logger
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, bcryptCost int, log *logger.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user, err := in.build()
	if err != nil {
		return nil, err
	}
	if user.PasswordHash, err = auth.HashPassword(in.Password, s.bcryptCost); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.LogSecurity("register", fmt.Sprintf("user %d as %s", user.ID, user.Role))
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		s.log.LogSecurity("login_failed", "unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, in.Password) {
		s.log.LogSecurity("login_failed", fmt.Sprintf("user %d", user.ID))
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *UserService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, actor domain.User, id int64, in UpdateInput) (*domain.User, error) {
	if actor.ID != id {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in = in.trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the caller's own account. Enterprises must delete their
// airlines first (repository.ErrConflict).
func (s *UserService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if actor.ID != id {
		return domain.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.LogSecurity("account_deleted", fmt.Sprintf("user %d", id))
	return nil
}

func (in RegisterInput) build() (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.UserType)
	if err != nil {
		return nil, domain.NewValidationError("user_type", err.Error())
	}
	return &domain.User{Name: in.Name, Email: in.Email, Phone: in.Phone, Role: role}, nil
}

func (in UpdateInput) trimmed() UpdateInput {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		in.Phone = &phone
	}
	return in
}

var _ UserUseCase = (*UserService)(nil)
