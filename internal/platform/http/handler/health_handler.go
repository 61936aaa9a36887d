// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// checkTimeout は依存先ごとの確認タイムアウトです。
const checkTimeout = 2 * time.Second

// Check は依存先（DB、キャッシュ等）の疎通確認です。
// Required が false の場合、失敗しても degraded として200を返します。
type Check struct {
	Name     string
	Required bool
	Probe    func(ctx context.Context) error
}

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを生成します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// GET以外では依存先を確認しません。
func NewHealth(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		if len(checks) == 0 {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for _, chk := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := chk.Probe(ctx)
			cancel()

			if err == nil {
				results[chk.Name] = "ok"
				continue
			}
			results[chk.Name] = err.Error()
			if chk.Required {
				status, code = "unavailable", http.StatusServiceUnavailable
			} else if code == http.StatusOK {
				status = "degraded"
			}
		}

		c.JSON(code, gin.H{"status": status, "checks": results})
	}
}
