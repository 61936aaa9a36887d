package cache

import (
	"time"
)

// minEntryTTL はキャッシュエントリの最短TTLです。
const minEntryTTL = time.Second

// TTLUntil は now から expiresAt までの期間を返します。
// 既に過ぎている場合や1秒未満の場合は minEntryTTL を返します。
func TTLUntil(expiresAt, now time.Time) time.Duration {
	d := expiresAt.Sub(now).Truncate(time.Second)
	if d < minEntryTTL {
		return minEntryTTL
	}
	return d
}
