package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/model/dto"
	"github.com/qs3c/school_go_server/internal/pkg/jwt"
	"github.com/qs3c/school_go_server/internal/pkg/response"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
	"github.com/qs3c/school_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key"

// testCfg 处理器测试共用配置
func testCfg() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      testSecret,
			ExpireHours: 24,
		},
		Policy: config.PolicyConfig{
			EligibilityWindowDays:  35,
			DuplicateWindowMinutes: 60,
			Currency:               "CNY",
		},
	}
}

func performRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// authHeaders 给指定用户签发测试令牌
func authHeaders(t *testing.T, userID int64) map[string]string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, testSecret, 24)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func setupAuthHandler(t *testing.T) (*AuthHandler, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, testCfg())
	h := NewAuthHandler(authService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return h, cleanup
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	req := dto.RegisterRequest{
		Username: "parent1",
		Email:    "parent1@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req, nil)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	h, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	req := dto.RegisterRequest{
		Username: "parent1",
		Email:    "a@example.com",
		Password: "password123",
	}
	w := performRequest(router, "POST", "/register", req, nil)
	require.Equal(t, http.StatusOK, w.Code)

	req.Email = "b@example.com"
	w = performRequest(router, "POST", "/register", req, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_InvalidRequest(t *testing.T) {
	h, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)

	w := performRequest(router, "POST", "/register", map[string]string{"email": "not-an-email"}, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)

	registerReq := dto.RegisterRequest{
		Username: "parent2",
		Email:    "parent2@example.com",
		Password: "password123",
	}
	w := performRequest(router, "POST", "/register", registerReq, nil)
	require.Equal(t, http.StatusOK, w.Code)

	loginReq := dto.LoginRequest{
		Username: "parent2",
		Password: "password123",
	}
	w = performRequest(router, "POST", "/login", loginReq, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, cleanup := setupAuthHandler(t)
	defer cleanup()

	router := gin.New()
	router.POST("/login", h.Login)

	req := dto.LoginRequest{
		Username: "nobody",
		Password: "wrongpassword",
	}
	w := performRequest(router, "POST", "/login", req, nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
