package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/catalog-api/internal/models"
)

// RedisUserRepository stores users as hashes keyed by username.
type RedisUserRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisUserRepository(rdb *redis.Client, prefix string) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisUserRepository) seqKey() string { return r.prefix + "users:seq" }

func (r *RedisUserRepository) userKey(username string) string {
	return r.prefix + "user:" + username
}

func (r *RedisUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	h, err := r.rdb.HGetAll(ctx, r.userKey(username)).Result()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if len(h) == 0 {
		return models.User{}, ErrUserNotFound
	}

	u := models.User{Username: username, PasswordHash: h["password_hash"]}
	if u.ID, err = strconv.ParseInt(h["id"], 10, 64); err != nil {
		return models.User{}, fmt.Errorf("corrupt id for user %q: %w", username, err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, h["created_at"]); err != nil {
		return models.User{}, fmt.Errorf("corrupt created_at for user %q: %w", username, err)
	}
	return u, nil
}

func (r *RedisUserRepository) EnsureUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	key := r.userKey(username)

	txCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.rdb.Watch(txCtx, func(tx *redis.Tx) error {
		n, err := tx.Exists(txCtx, key).Result()
		if err != nil || n > 0 {
			return err
		}
		id, err := tx.Incr(txCtx, r.seqKey()).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(txCtx, func(pipe redis.Pipeliner) error {
			pipe.HSet(txCtx, key, map[string]any{
				"id":            strconv.FormatInt(id, 10),
				"password_hash": passwordHash,
				"created_at":    nowUTC().Format(time.RFC3339Nano),
			})
			return nil
		})
		return err
	}, key)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	// TxFailedErr means another writer created the key first, which is fine.
	return r.GetByUsername(ctx, username)
}
