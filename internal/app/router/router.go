// Package router wires HTTP routes and middleware.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "satark_backend/internal/feature/auth/transport/handler"
	guard "satark_backend/internal/feature/routeguard/transport"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	Auth         *authhandler.AuthHandler
	AuthRequired gin.HandlerFunc
	Protected    gin.HandlerFunc
	Health       gin.HandlerFunc
	// CORSAllowedOrigins が空の場合CORSは無効です。"*" は全オリジンを許可します（クッキーは送信されません）。
	CORSAllowedOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	if mw := corsMiddleware(d.CORSAllowedOrigins); mw != nil {
		r.Use(mw)
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", d.Health)
	r.HEAD("/healthz", d.Health)
	r.OPTIONS("/healthz", d.Health)
	// 新規ユーザー登録
	r.POST("/register", d.Auth.Register)
	// ログイン（JWT 発行、tokenクッキー設定）
	r.POST("/login", d.Auth.Login)

	// 認証必須のルート
	// → Bearer ヘッダーまたは token クッキーに失効していない JWT が必要
	auth := r.Group("/")
	auth.Use(d.AuthRequired)
	{
		auth.GET("/profile", d.Auth.Profile)
		auth.POST("/logout", d.Auth.Logout)
	}

	// ルートガード: ロード中 / ログインへリダイレクト / コンテンツ
	app := r.Group("/app")
	app.Use(d.Protected)
	{
		app.GET("", guard.Home)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
