package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/pkg/config"
)

var _ ledger.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore almacén de idempotencia sobre Redis. Guarda la respuesta
// serializada de cada operación mutante por operation id del cliente; un
// reintento con el mismo id recibe la respuesta original sin re-aplicar.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore construye el almacén desde la configuración. Falla si
// Redis no responde al ping: mejor no arrancar que arrancar sin idempotencia
// cuando fue configurada.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig) (*IdempotencyStore, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &IdempotencyStore{client: client}, nil
}

// Get devuelve el valor almacenado, o "" si la clave no existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// SetNX escribe solo si la clave no existe; devuelve false si ya existía.
func (s *IdempotencyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Key construye la clave para un scope y un operation id. El namespace por
// empresa y usuario evita que dos clientes que eligen el mismo operation id
// compartan respuesta entre sí.
func (s *IdempotencyStore) Key(companyID, userID, scope, id string) string {
	return "idem:" + companyID + ":" + userID + ":" + scope + ":" + id
}

// Close cierra la conexión con Redis.
func (s *IdempotencyStore) Close() error {
	return s.client.Close()
}
