package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"konsol-admin/internal/models"
	"konsol-admin/pkg/crypto"
)

// ErrSessionNotFound menandakan tidak ada record tersimpan untuk
// session id tersebut.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore mempersist satu record user tersanitasi per session id.
// Password tidak pernah sampai ke sini: yang disimpan selalu AuthUser.
type SessionStore interface {
	Set(ctx context.Context, sid string, user models.AuthUser) error
	Get(ctx context.Context, sid string) (models.AuthUser, error)
	Delete(ctx context.Context, sid string) error
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// RedisSessionStore menyimpan record sesi di Redis. Payload di-seal
// dengan AES sebelum ditulis; record sesi memuat identitas karyawan.
type RedisSessionStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, sealKey string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, key: sealKey, ttl: ttl}
}

func (s *RedisSessionStore) Set(ctx context.Context, sid string, user models.AuthUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	sealed, err := crypto.Seal(string(payload), s.key)
	if err != nil {
		return err
	}
	return s.rdb.SetEX(ctx, sessionKey(sid), sealed, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, sid string) (models.AuthUser, error) {
	var user models.AuthUser
	sealed, err := s.rdb.Get(ctx, sessionKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user, ErrSessionNotFound
		}
		return user, err
	}
	payload, err := crypto.Open(sealed, s.key)
	if err != nil {
		return user, err
	}
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return user, err
	}
	return user, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

// MemorySessionStore adalah SessionStore in-memory untuk test dan
// pemakaian single-node tanpa Redis.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.AuthUser
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.AuthUser)}
}

func (s *MemorySessionStore) Set(ctx context.Context, sid string, user models.AuthUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = user
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sid string) (models.AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.sessions[sid]
	if !ok {
		return models.AuthUser{}, ErrSessionNotFound
	}
	return user, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
