package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaomarel/billiards-club/config"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubAuthRepo lets tests script the lookups Register performs.
type stubAuthRepo struct {
	byEmail     func(string) (*user.User, error)
	byStudentID func(string) (*user.User, error)
	created     *user.User
}

func (s *stubAuthRepo) CreateUser(u *user.User) error {
	u.ID = 1
	s.created = u
	return nil
}

func (s *stubAuthRepo) GetUserByEmail(email string) (*user.User, error) {
	if s.byEmail != nil {
		return s.byEmail(email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthRepo) GetUserByStudentID(studentID string) (*user.User, error) {
	if s.byStudentID != nil {
		return s.byStudentID(studentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthRepo) GetUserByID(id uint) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthRepo) SaveRefreshToken(token *user.RefreshToken) error { return nil }

func (s *stubAuthRepo) GetRefreshToken(tokenString string) (*user.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAuthRepo) InvalidateRefreshToken(tokenString string) error { return nil }

func (s *stubAuthRepo) InvalidateAllRefreshTokensForUser(userID uint) error { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "access-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 60
	cfg.JWT.RefreshTokenSecret = "refresh-secret"
	cfg.JWT.RefreshTokenExpiryDays = 7
	cfg.Club.DefaultElo = 1200
	return cfg
}

func registerRequest(t *testing.T, repo AuthRepository) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller := NewAuthController(repo, testConfig())
	r := gin.New()
	r.POST("/register", controller.Register)

	body := `{"name":"John Doe","email":"john@example.com","password":"password123","student_id":"A20431337"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	t.Run("new member is created with the default rating", func(t *testing.T) {
		repo := &stubAuthRepo{}

		w := registerRequest(t, repo)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, repo.created)
		assert.Equal(t, "member", repo.created.Role)
		assert.Equal(t, 1200, repo.created.Stats.Elo)
		assert.NotEqual(t, "password123", repo.created.Password)
	})

	t.Run("existing email is a conflict", func(t *testing.T) {
		repo := &stubAuthRepo{
			byEmail: func(string) (*user.User, error) { return &user.User{}, nil },
		}

		w := registerRequest(t, repo)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already exists")
	})

	t.Run("existing student ID is a conflict", func(t *testing.T) {
		repo := &stubAuthRepo{
			byStudentID: func(string) (*user.User, error) { return &user.User{}, nil },
		}

		w := registerRequest(t, repo)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "student ID already exists")
	})

	t.Run("lookup failure is a server error, not a conflict", func(t *testing.T) {
		repo := &stubAuthRepo{
			byEmail: func(string) (*user.User, error) { return nil, errors.New("connection refused") },
		}

		w := registerRequest(t, repo)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "already exists")
		assert.Nil(t, repo.created)
	})

	t.Run("student ID lookup failure is a server error", func(t *testing.T) {
		repo := &stubAuthRepo{
			byStudentID: func(string) (*user.User, error) { return nil, errors.New("connection refused") },
		}

		w := registerRequest(t, repo)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "already exists")
	})
}
