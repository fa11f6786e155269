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

// RedisProductRepository keeps each product in a hash and orders them with a
// sorted set scored by id, which is assigned in creation order.
//
// Keys (under prefix):
//
//	products:seq      id counter
//	products:index    zset of ids
//	product:<id>      hash of fields
type RedisProductRepository struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisProductRepository(rdb *redis.Client, prefix string) *RedisProductRepository {
	return &RedisProductRepository{rdb: rdb, prefix: prefix, now: nowUTC}
}

func (r *RedisProductRepository) seqKey() string   { return r.prefix + "products:seq" }
func (r *RedisProductRepository) indexKey() string { return r.prefix + "products:index" }

func (r *RedisProductRepository) productKey(id int64) string {
	return r.prefix + "product:" + strconv.FormatInt(id, 10)
}

func productFields(in models.ProductInput) map[string]any {
	fields := map[string]any{
		"name":  in.Name,
		"price": strconv.FormatFloat(in.Price, 'f', -1, 64),
		"stock": strconv.Itoa(in.Stock),
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return fields
}

func parseProductHash(id int64, h map[string]string) (models.Product, error) {
	p := models.Product{ID: id, Name: h["name"]}
	if d, ok := h["description"]; ok {
		p.Description = &d
	}

	var err error
	if p.Price, err = strconv.ParseFloat(h["price"], 64); err != nil {
		return models.Product{}, fmt.Errorf("corrupt price for product %d: %w", id, err)
	}
	if p.Stock, err = strconv.Atoi(h["stock"]); err != nil {
		return models.Product{}, fmt.Errorf("corrupt stock for product %d: %w", id, err)
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, h["created_at"]); err != nil {
		return models.Product{}, fmt.Errorf("corrupt created_at for product %d: %w", id, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, h["updated_at"]); err != nil {
		return models.Product{}, fmt.Errorf("corrupt updated_at for product %d: %w", id, err)
	}
	return p, nil
}

func (r *RedisProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	members, err := r.rdb.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	ids := make([]int64, 0, len(members))
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	pipe := r.rdb.Pipeline()
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt product index entry %q: %w", m, err)
		}
		ids = append(ids, id)
		cmds = append(cmds, pipe.HGetAll(ctx, r.productKey(id)))
	}
	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}

	products := make([]models.Product, 0, len(cmds))
	for i, cmd := range cmds {
		h := cmd.Val()
		if len(h) == 0 {
			// deleted between the index read and the fetch
			continue
		}
		p, err := parseProductHash(ids[i], h)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *RedisProductRepository) GetByID(ctx context.Context, id int64) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getByID(ctx, id)
}

func (r *RedisProductRepository) getByID(ctx context.Context, id int64) (models.Product, error) {
	h, err := r.rdb.HGetAll(ctx, r.productKey(id)).Result()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	if len(h) == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return parseProductHash(id, h)
}

func (r *RedisProductRepository) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := r.rdb.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to allocate product id: %w", err)
	}

	now := r.now().Format(time.RFC3339Nano)
	fields := productFields(in)
	fields["created_at"] = now
	fields["updated_at"] = now

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.productKey(id), fields)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	created, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d created but could not be read back: %w", id, err)
	}
	return created, nil
}

func (r *RedisProductRepository) Update(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	key := r.productKey(id)
	fields := productFields(in)
	fields["updated_at"] = r.now().Format(time.RFC3339Nano)

	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrProductNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			if in.Description == nil {
				pipe.HDel(ctx, key, "description")
			}
			return nil
		})
		return err
	}, key)
	if errors.Is(err, ErrProductNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	updated, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %d updated but could not be read back: %w", id, err)
	}
	return updated, nil
}

func (r *RedisProductRepository) Delete(ctx context.Context, id int64) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	existing, err := r.getByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	var del *redis.IntCmd
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.productKey(id))
		pipe.ZRem(ctx, r.indexKey(), strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if del.Val() == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return existing, nil
}

func (r *RedisProductRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.rdb.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(n), nil
}
