package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CartRepository keeps one session cart per customer. Carts are values:
// Get returns a copy and Save replaces the stored cart. Update applies fn to
// the stored cart atomically and returns the result.
type CartRepository interface {
	Get(ctx context.Context, customerID uint) (*model.Cart, error)
	Save(ctx context.Context, customerID uint, cart *model.Cart) error
	Update(ctx context.Context, customerID uint, fn func(cart *model.Cart)) (*model.Cart, error)
	Delete(ctx context.Context, customerID uint) error
}

type memoryCartRepository struct {
	mu    sync.Mutex
	carts map[uint]*model.Cart
}

// NewMemoryCartRepository keeps carts in process memory. Carts are lost on restart.
func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{carts: make(map[uint]*model.Cart)}
}

func (r *memoryCartRepository) Get(_ context.Context, customerID uint) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[customerID].Clone(), nil
}

func (r *memoryCartRepository) Save(_ context.Context, customerID uint, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart == nil || cart.IsEmpty() {
		delete(r.carts, customerID)
		return nil
	}
	r.carts[customerID] = cart.Clone()
	return nil
}

func (r *memoryCartRepository) Update(_ context.Context, customerID uint, fn func(cart *model.Cart)) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := r.carts[customerID].Clone()
	fn(cart)
	if cart.IsEmpty() {
		delete(r.carts, customerID)
	} else {
		r.carts[customerID] = cart.Clone()
	}
	return cart, nil
}

func (r *memoryCartRepository) Delete(_ context.Context, customerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, customerID)
	return nil
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository stores carts as JSON under cart:<customer_id>.
// Every save refreshes the TTL, so idle carts expire like a session.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func cartKey(customerID uint) string {
	return fmt.Sprintf("cart:%d", customerID)
}

// cartUpdateRetries bounds optimistic retries when another request writes
// the cart between WATCH and EXEC.
const cartUpdateRetries = 5

type cartReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisCartRepository) Get(ctx context.Context, customerID uint) (*model.Cart, error) {
	return r.read(ctx, r.client, customerID)
}

func (r *redisCartRepository) read(ctx context.Context, reader cartReader, customerID uint) (*model.Cart, error) {
	raw, err := reader.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{}, nil
	}
	if err != nil {
		logger.Error("Failed to read cart from redis", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		logger.Warn("Discarding unreadable cart", map[string]interface{}{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return &model.Cart{}, nil
	}
	return &cart, nil
}

// Update runs fn inside WATCH/MULTI so a concurrent write to the same cart
// makes the transaction retry against the newer value.
func (r *redisCartRepository) Update(ctx context.Context, customerID uint, fn func(cart *model.Cart)) (*model.Cart, error) {
	key := cartKey(customerID)
	var updated *model.Cart

	txf := func(tx *redis.Tx) error {
		cart, err := r.read(ctx, tx, customerID)
		if err != nil {
			return err
		}
		fn(cart)

		var raw []byte
		if !cart.IsEmpty() {
			if raw, err = json.Marshal(cart); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if raw == nil {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		if err == nil {
			updated = cart
		}
		return err
	}

	var err error
	for attempt := 0; attempt < cartUpdateRetries; attempt++ {
		err = r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		logger.Error("Failed to update cart in redis", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return updated, nil
}

func (r *redisCartRepository) Save(ctx context.Context, customerID uint, cart *model.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return r.Delete(ctx, customerID)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, cartKey(customerID), raw, r.ttl).Err(); err != nil {
		logger.Error("Failed to write cart to redis", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}
	return nil
}

func (r *redisCartRepository) Delete(ctx context.Context, customerID uint) error {
	if err := r.client.Del(ctx, cartKey(customerID)).Err(); err != nil {
		logger.Error("Failed to delete cart from redis", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}
	return nil
}
