package memcache_fx

import (
	"go.uber.org/fx"

	"dayout/internal/config"
	mem "dayout/pkg/memcache"
)

var Module = fx.Provide(provideSessionStore)

func provideSessionStore(cfg config.Config) mem.SessionStore {
	return mem.NewSessions(cfg.Session.TTL)
}
