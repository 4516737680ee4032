//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"campus-library/internal/domain/user"
	"campus-library/internal/handler/dto/request"
	"campus-library/internal/handler/dto/response"
	"campus-library/tests/common/dbtest"
	"campus-library/tests/common/helper"
	"campus-library/tests/e2e"
	jwtHelper "campus-library/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *jwtHelper.JWTTestHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = jwtHelper.NewJWTTestHelper(s.DB, s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
	dbtest.CreateTestUser(s.T(), s.DB, "prof@example.com", string(user.RoleProfessor))
	dbtest.CreateTestUser(s.T(), s.DB, "student@example.com", string(user.RoleStudent))
	dbtest.CreateTestUser(s.T(), s.DB, "suspended@example.com", string(user.RoleStudent))

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET status = 'suspended' WHERE email = 'suspended@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		req            request.RegisterRequest
		expectedStatus int
	}{
		{
			name: "new student account",
			req: request.RegisterRequest{
				Email:    "fresh@example.com",
				Password: "password123",
				Role:     "student",
				Name:     "Fresh Start",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email rejected",
			req: request.RegisterRequest{
				Email:    "admin@example.com",
				Password: "password123",
				Role:     "student",
				Name:     "Copy Cat",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown role rejected",
			req: request.RegisterRequest{
				Email:    "other@example.com",
				Password: "password123",
				Role:     "librarian",
				Name:     "No Such Role",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.req, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var res response.RegisterResponse
				helper.DecodeResponseBody(t, w.Body, &res)
				require.NotEmpty(t, res.UserID)

				// the new account can log in right away
				s.jwtHelper.LoginUser(t, s.Router, tt.req.Email, tt.req.Password)
			}
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "admin@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "admin@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "suspended account",
			email:          "suspended@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty password",
			email:          "admin@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				err := helper.DecodeResponseBody(t, w.Body, &loginRes)
				require.NoError(t, err)
				require.NotEmpty(t, loginRes.AccessToken)
				require.NotEmpty(t, loginRes.RefreshToken)

				var lastLogin any
				err = s.DB.QueryRow(s.T().Context(), "SELECT last_login_at FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login_at was not updated")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	tests := []struct {
		name              string
		setupRefreshToken func() string
		expectedStatus    int
	}{
		{
			name: "valid refresh token",
			setupRefreshToken: func() string {
				reqBody := request.LoginRequest{
					Email:    "admin@example.com",
					Password: "password123",
				}
				w := helper.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL, reqBody, "")
				var loginRes response.LoginResponse
				helper.DecodeResponseBody(s.T(), w.Body, &loginRes)
				return loginRes.RefreshToken
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "garbage refresh token",
			setupRefreshToken: func() string {
				return "invalid-refresh-token"
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "empty refresh token",
			setupRefreshToken: func() string {
				return ""
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.RefreshRequest{
				RefreshToken: tt.setupRefreshToken(),
			}

			w := helper.PerformRequest(t, s.Router, http.MethodPost, refreshURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var refreshRes response.RefreshResponse
				err := helper.DecodeResponseBody(t, w.Body, &refreshRes)
				require.NoError(t, err)
				require.NotEmpty(t, refreshRes.AccessToken)
				require.NotEmpty(t, refreshRes.RefreshToken)
			}
		})
	}
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		setupToken     func() string
		expectedStatus int
	}{
		{
			name: "authenticated user",
			setupToken: func() string {
				return s.jwtHelper.LoginUser(s.T(), s.Router, "prof@example.com", "password123")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing token",
			setupToken: func() string {
				return ""
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setupToken: func() string {
				userID := dbtest.CreateTestUser(s.T(), s.DB, "short@example.com", string(user.RoleStudent))
				return s.jwtHelper.CreateExpiredToken(s.T(), userID, user.RoleStudent)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, tt.setupToken())
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var meRes response.MeResponse
				err := helper.DecodeResponseBody(t, w.Body, &meRes)
				require.NoError(t, err)
				require.NotNil(t, meRes.User)
				require.Equal(t, "prof@example.com", meRes.User.Email)
			}
		})
	}
}
