package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned by Lock when another holder owns the key.
var ErrLocked = errors.New("cache: lock is held")

// Lock takes a SET NX lock on key for at most ttl. The returned release
// function removes the lock only if this caller still owns it.
func Lock(ctx context.Context, c Cache, key string, ttl time.Duration) (func(context.Context), error) {
	token := uuid.NewString()
	ok, err := c.SetNX(ctx, key, token, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func(ctx context.Context) {
		_, _ = c.DelIfEqual(ctx, key, token)
	}, nil
}
