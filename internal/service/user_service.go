// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"notably/internal/auth"
	"notably/internal/avatar"
	"notably/internal/models"
	"notably/internal/repository"
	"notably/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenManager
	pickAvatar avatar.Picker
	bcryptCost int
}

type SignUpInput struct {
	Username string
	Email    string
	Password string
}

type SignInInput struct {
	Login    string
	Password string
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	pickAvatar avatar.Picker,
	bcryptCost int,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		pickAvatar: pickAvatar,
		bcryptCost: bcryptCost,
	}
}

// SignUp registers a new account and returns the user with a signed token.
// The username is trimmed and the email is trimmed and lowercased before any
// validation or storage, so lookups are case-stable.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", models.NewConflictError("username already in use")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", models.NewConflictError("email already in use")
	}

	hashed, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Avatar:   s.pickAvatar(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the authority; a concurrent signup between the
		// existence checks and this insert still surfaces as a conflict.
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// SignIn authenticates by username or email plus password. All failure modes
// collapse into one invalid-credentials error so callers cannot probe which
// accounts exist.
func (s *UserService) SignIn(ctx context.Context, in SignInInput) (*models.User, string, error) {
	login := strings.TrimSpace(in.Login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckPassword(in.Password, user.Password) {
		return nil, "", models.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// Me returns the authenticated user's own record.
func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}
