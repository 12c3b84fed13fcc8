package handlers

import (
	"time"

	"konsol-admin/internal/aggregate"
	"konsol-admin/internal/auth"
	"konsol-admin/internal/store"
)

// Deps adalah dependensi yang di-inject ke semua handler. Tidak ada
// state global: session manager, store client, dan aggregator dibuat
// di main lalu diteruskan ke sini.
type Deps struct {
	Auth     *auth.Manager
	Store    *store.Client
	Agg      *aggregate.Service
	Secret   []byte
	TokenTTL time.Duration
}
