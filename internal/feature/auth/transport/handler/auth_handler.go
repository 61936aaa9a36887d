// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"satark_backend/internal/feature/auth/domain/entity"
	"satark_backend/internal/feature/auth/transport/http/dto"
	"satark_backend/internal/feature/auth/usecase"
	jwtmw "satark_backend/internal/platform/jwt"
)

const (
	msgDuplicateEmail     = "Email already exists. Please use a different email."
	msgRegistrationFailed = "Registration failed"
	msgInvalidCredentials = "Invalid email or password"
	msgLoginFailed        = "Login failed"
	msgLoggedOut          = "Logged out successfully"
	msgLogoutFailed       = "Logout failed"
	msgUnauthorized       = "Unauthorized"
	msgProfileFailed      = "Failed to load profile"
	msgInvalidRequest     = "Invalid request body"
	msgPasswordTooLong    = "Password must be at most 72 bytes long"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンとユーザーを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// Profile は認証済みユーザーを返します。
	Profile(ctx context.Context, userID string) (*entity.User, error)
	// Logout はトークンを失効させます。
	Logout(ctx context.Context, token string) error
}

// CookieOptions controls the token cookie set by Login.
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth   AuthUsecase
	cookie CookieOptions
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー、メール重複時は400を返却
// - 成功時はトークンとユーザー付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Firstname: req.Fullname.Firstname,
		Lastname:  req.Fullname.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		var verrs usecase.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, validationResponse(verrs))
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			slog.Warn("register rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Message: msgDuplicateEmail})
		default:
			slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Message: msgRegistrationFailed, Error: err.Error()})
		}
		return
	}

	slog.Info("user registration successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthRes{Token: res.Token, User: dto.NewUserRes(res.User)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（未登録メールとパスワード不一致は同一レスポンス）
// - 認証成功時はtokenクッキーを設定し、トークンとユーザー付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var verrs usecase.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, validationResponse(verrs))
		case errors.Is(err, usecase.ErrInvalidCredentials):
			// ユーザー列挙攻撃を防止するため、原因を区別しない
			slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Message: msgInvalidCredentials})
		default:
			slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Message: msgLoginFailed, Error: err.Error()})
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.CookieName, res.Token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{Token: res.Token, User: dto.NewUserRes(res.User)})
}

// Profile returns the user resolved by AuthRequired.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetString(jwtmw.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Message: msgUnauthorized})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			// the token outlived its user
			slog.Warn("profile for unknown user", "user_id", userID)
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Message: msgUnauthorized})
			return
		}
		slog.Error("profile lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Message: msgProfileFailed, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Logout blacklists the bearer token, else the token AuthRequired verified, else the token cookie, and clears the cookie.
// A request without a token still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	// bearer header, then the token the guard verified, then the raw cookie
	token := jwtmw.BearerToken(c)
	if token == "" {
		token = c.GetString(jwtmw.ContextToken)
	}
	if token == "" {
		token, _ = c.Cookie(jwtmw.CookieName)
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Message: msgLogoutFailed, Error: err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, dto.MessageRes{Message: msgLoggedOut})
}

// bindingMessages maps validator namespaces (without the root struct) to the
// client-facing field path and message.
var bindingMessages = map[string]dto.FieldErrorRes{
	"Fullname":           {Field: "fullname", Message: "Full name is required"},
	"Fullname.Firstname": {Field: "fullname.firstname", Message: "First name must be at least 3 characters long"},
	"Fullname.Lastname":  {Field: "fullname.lastname", Message: "Last name must be at least 3 characters long"},
	"Email":              {Field: "email", Message: "Invalid Email"},
	"Password":           {Field: "password", Message: "Password must be at least 6 characters long"},
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Message: msgInvalidRequest, Error: err.Error()})
		return
	}

	out := dto.ValidationErrorRes{Errors: make([]dto.FieldErrorRes, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, fieldError(fe))
	}
	c.JSON(http.StatusBadRequest, out)
}

func fieldError(fe validator.FieldError) dto.FieldErrorRes {
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if m, ok := bindingMessages[ns]; ok {
		if ns == "Password" && fe.Tag() == "max" {
			m.Message = msgPasswordTooLong
		}
		return m
	}
	return dto.FieldErrorRes{Field: strings.ToLower(ns), Message: fe.Error()}
}

func validationResponse(verrs usecase.ValidationErrors) dto.ValidationErrorRes {
	out := dto.ValidationErrorRes{Errors: make([]dto.FieldErrorRes, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, dto.FieldErrorRes{Field: fe.Field, Message: fe.Message})
	}
	return out
}
