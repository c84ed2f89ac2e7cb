package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"notably/internal/auth"
	"notably/internal/avatar"
	"notably/internal/models"
	"notably/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
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

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameOrEmail(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func newMockedAuthServer(t *testing.T, repo *MockUserRepository) (*fiber.App, *Server) {
	t.Helper()
	cfg := testConfig()
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	s := &Server{
		config:   cfg,
		tokens:   tokens,
		userRepo: repo,
	}
	s.userService = service.NewUserService(repo, tokens, avatar.NewPicker(nil), bcrypt.MinCost)

	app := fiber.New()
	app.Post("/signup", s.Signup)
	app.Post("/signin", s.Signin)
	return app, s
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "Sup3r-secret-pw!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "testuser").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					args.Get(1).(*models.User).ID = 1
				}).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "testuser",
				"email":    "exists@example.com",
				"password": "Sup3r-secret-pw!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "testuser").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "exists@example.com").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   models.CodeConflict,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "testuser",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "short",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			app, _ := newMockedAuthServer(t, mockRepo)

			resp, body := doJSON(t, app, http.MethodPost, "/signup", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, "body: %v", body)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["code"])
			}
			if tt.expectedStatus == http.StatusCreated {
				assert.NotEmpty(t, body["token"])
				user := body["user"].(map[string]any)
				assert.Equal(t, "testuser", user["username"])
				assert.Nil(t, user["password"], "password hash must not be serialized")
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSignin(t *testing.T) {
	hashed, err := auth.HashPassword("Sup3r-secret-pw!", bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 3, Username: "alice", Email: "alice@example.com", Password: hashed}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success By Username",
			body: map[string]string{"login": "alice", "password": "Sup3r-secret-pw!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "alice").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Success By Email Field",
			body: map[string]string{"email": "alice@example.com", "password": "Sup3r-secret-pw!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "alice@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown User",
			body: map[string]string{"login": "ghost", "password": "Sup3r-secret-pw!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"login": "alice", "password": "wrong-password!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "alice").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Password",
			body:           map[string]string{"login": "alice"},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			app, _ := newMockedAuthServer(t, mockRepo)

			resp, body := doJSON(t, app, http.MethodPost, "/signin", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, "body: %v", body)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Equal(t, models.CodeInvalidCredentials, body["code"])
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
