package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"satark_backend/internal/app/di"
	"satark_backend/internal/feature/auth/domain/entity"
	"satark_backend/internal/feature/auth/transport/http/dto"
	"satark_backend/internal/platform/config"
	"satark_backend/internal/platform/db"
	jwtmw "satark_backend/internal/platform/jwt"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupServer wires the full stack over an in-memory SQLite database.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	stores, err := di.NewGormStores(gdb)
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:          testSecret,
		JWTTTL:             time.Hour,
		LoginPath:          "/login",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		StoreDriver:        config.StoreSQLite,
	}
	return di.NewEngine(cfg, stores, nil), gdb
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r http.Handler, email string) dto.AuthRes {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"fullname": gin.H{"firstname": "Alice", "lastname": "Smith"},
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res dto.AuthRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestRegisterProfileLogout(t *testing.T) {
	r, gdb := setupServer(t)

	reg := register(t, r, "alice@example.com")
	require.NotEmpty(t, reg.Token)

	// token resolves to the registered user
	w := doJSON(t, r, http.MethodGet, "/profile", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var profile dto.UserRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, reg.User.ID, profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = doJSON(t, r, http.MethodPost, "/logout", nil, reg.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())

	var n int64
	require.NoError(t, gdb.Model(&entity.BlacklistedToken{}).Where("token = ?", reg.Token).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	// revoked token is rejected everywhere
	w = doJSON(t, r, http.MethodGet, "/profile", nil, reg.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, r, http.MethodPost, "/logout", nil, reg.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, gdb.Model(&entity.BlacklistedToken{}).Where("token = ?", reg.Token).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r, gdb := setupServer(t)

	register(t, r, "dup@example.com")

	w := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"fullname": gin.H{"firstname": "Other"},
		"email":    "DUP@example.com",
		"password": "another123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Email already exists. Please use a different email."}`, w.Body.String())

	var n int64
	require.NoError(t, gdb.Model(&entity.User{}).Where("email = ?", "dup@example.com").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRegister_ValidationHasNoSideEffect(t *testing.T) {
	tests := []struct {
		name       string
		body       gin.H
		wantFields []string
	}{
		{
			name:       "binding errors",
			body:       gin.H{"fullname": gin.H{"firstname": "Al"}, "email": "bad", "password": "123"},
			wantFields: []string{"fullname.firstname", "password"},
		},
		{
			name:       "email format after normalization",
			body:       gin.H{"fullname": gin.H{"firstname": "Alice"}, "email": " bad ", "password": "secret123"},
			wantFields: []string{"email"},
		},
		{
			name:       "password over 72 bytes",
			body:       gin.H{"fullname": gin.H{"firstname": "Alice"}, "email": "alice@example.com", "password": strings.Repeat("a", 73)},
			wantFields: []string{"password"},
		},
		{
			name:       "multibyte password over 72 bytes",
			body:       gin.H{"fullname": gin.H{"firstname": "Alice"}, "email": "alice@example.com", "password": strings.Repeat("é", 40)},
			wantFields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, gdb := setupServer(t)

			w := doJSON(t, r, http.MethodPost, "/register", tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var res dto.ValidationErrorRes
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			got := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.wantFields, got)

			var n int64
			require.NoError(t, gdb.Model(&entity.User{}).Count(&n).Error)
			assert.Zero(t, n)
		})
	}
}

func TestRegister_PaddedEmailIsNormalized(t *testing.T) {
	r, _ := setupServer(t)

	reg := register(t, r, " Alice@Example.com ")
	assert.Equal(t, "alice@example.com", reg.User.Email)

	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "ALICE@example.com ", "password": "secret123"}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogin_OverLongPassword(t *testing.T) {
	r, _ := setupServer(t)
	register(t, r, "carol@example.com")

	w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "carol@example.com", "password": strings.Repeat("a", 73)}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at most 72 bytes long")
}

func TestLogin(t *testing.T) {
	r, _ := setupServer(t)
	reg := register(t, r, "bob@example.com")

	t.Run("correct credentials", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "bob@example.com", "password": "secret123"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var res dto.AuthRes
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, reg.User.ID, res.User.ID)

		claims, err := jwtmw.NewManager(testSecret, time.Hour).Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, claims.Subject)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, res.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("unknown email and wrong password are identical", func(t *testing.T) {
		wrong := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "bob@example.com", "password": "nope-nope"}, "")
		unknown := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "nobody@example.com", "password": "nope-nope"}, "")

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, wrong.Code, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestProfile_RequiresToken(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/profile", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppRouteGuard(t *testing.T) {
	r, _ := setupServer(t)
	reg := register(t, r, "carol@example.com")

	get := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: jwtmw.CookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = get(reg.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reg.User.ID)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/logout", nil, reg.Token).Code)

	w = get(reg.Token)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestHealthz(t *testing.T) {
	r, _ := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	r, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
