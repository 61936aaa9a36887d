package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"satark_backend/internal/feature/auth/domain/entity"
)

// dummyPasswordHash はユーザーが存在しない場合にも bcrypt 比較を実行するためのハッシュです。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はパスワードハッシュを含めてユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はパスワードハッシュを除いてユーザーを取得します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// BlacklistRepository は失効済みトークンの保存先を抽象化します。
type BlacklistRepository interface {
	// Add はトークンを記録します。同じトークンを二度追加しても一件のままです。
	Add(ctx context.Context, token *entity.BlacklistedToken) error

	// Contains はトークンが失効済みかどうかを返します。
	Contains(ctx context.Context, token string) (bool, error)
}

// JWTManager はJWTトークンの発行と有効期限の読み取りを定義します。
type JWTManager interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID, email string) (string, error)

	// ExpiresAt は署名検証を行わずに exp クレームを読み取ります。
	ExpiresAt(token string) (time.Time, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users     UserRepository
	blacklist BlacklistRepository
	tokens    JWTManager
	newID     func() string
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, blacklist BlacklistRepository, tokens JWTManager) *authUsecase {
	return &authUsecase{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		newID:     uuid.NewString,
	}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hashed, err := entity.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:       u.newID(),
		Fullname: entity.Fullname{Firstname: in.Firstname, Lastname: in.Lastname},
		Email:    in.Email,
		Password: hashed,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.WithoutPassword()}, nil
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	candidate := &entity.User{Password: dummyPasswordHash}
	if err == nil {
		candidate = user
	}
	matched := candidate.ComparePassword(password)

	// ユーザー未検出またはパスワード不一致の場合、同一のエラーを返す
	if err != nil || !matched {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.WithoutPassword()}, nil
}

// Profile は認証済みユーザーのレコードを返します。
func (u *authUsecase) Profile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.WithoutPassword(), nil
}

// Logout はトークンをブラックリストに追加します。空のトークンは何もしません。
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	now := time.Now()
	expiresAt, err := u.tokens.ExpiresAt(token)
	if err != nil || !expiresAt.After(now) {
		expiresAt = now.Add(entity.DefaultBlacklistTTL)
	}

	entry := &entity.BlacklistedToken{Token: token, CreatedAt: now, ExpiresAt: expiresAt}
	if err := u.blacklist.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}
