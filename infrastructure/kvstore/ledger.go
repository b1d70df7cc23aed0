package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/gouveiaesilva/dashmilo-api/infrastructure/repository"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DispatchLedger marca disparos com SET NX. A reserva expira em
// repository.ClaimLease e a confirmação estende a marca até o TTL.
type DispatchLedger struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	lease  time.Duration
}

var _ repository.DispatchLedger = (*DispatchLedger)(nil)

func NewDispatchLedger(rdb *redis.Client, prefix string, ttl time.Duration) *DispatchLedger {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	lease := repository.ClaimLease
	if lease > ttl {
		lease = ttl
	}

	return &DispatchLedger{
		rdb:    rdb,
		prefix: keyPrefix(prefix) + ":dispatch:",
		ttl:    ttl,
		lease:  lease,
	}
}

func (l *DispatchLedger) Claim(ctx context.Context, key domain.DispatchKey) (bool, error) {
	claimed, err := l.rdb.SetNX(ctx, l.prefix+key.String(), "claimed:"+time.Now().UTC().Format(time.RFC3339), l.lease).Result()
	if err != nil {
		return false, fmt.Errorf("kvstore: erro ao reservar disparo: %w", err)
	}

	return claimed, nil
}

func (l *DispatchLedger) Confirm(ctx context.Context, key domain.DispatchKey) error {
	if err := l.rdb.Set(ctx, l.prefix+key.String(), "sent:"+time.Now().UTC().Format(time.RFC3339), l.ttl).Err(); err != nil {
		return fmt.Errorf("kvstore: erro ao confirmar disparo: %w", err)
	}

	return nil
}

func (l *DispatchLedger) Release(ctx context.Context, key domain.DispatchKey) error {
	if err := l.rdb.Del(ctx, l.prefix+key.String()).Err(); err != nil {
		return fmt.Errorf("kvstore: erro ao liberar disparo: %w", err)
	}

	return nil
}
