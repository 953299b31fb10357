package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catering/internal/core/domain/model/tracking"
	"catering/internal/core/ports"
	"catering/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 32

// ErrUpdateConflict is returned when an update kept losing to concurrent writers.
var ErrUpdateConflict = errors.New("tracking order update conflict")

// TrackingStore keeps TrackingOrder records in the orders namespace of a Store.
//
// Update runs the mutation inside WATCH/MULTI/EXEC: when another writer touched the
// record between read and write, EXEC fails and the mutation is replayed on the
// fresh record. Writes use KEEPTTL so updates never extend the record lifetime.
type TrackingStore struct {
	store *Store
}

var _ ports.TrackingStore = (*TrackingStore)(nil)

func NewTrackingStore(store *Store) *TrackingStore {
	return &TrackingStore{store: store}
}

func (t *TrackingStore) key(orderID int64) string {
	return t.store.key(ports.OrdersNamespace, strconv.FormatInt(orderID, 10))
}

func (t *TrackingStore) Create(ctx context.Context, orderID int64, record *tracking.TrackingOrder, ttl time.Duration) error {
	return t.store.Set(ctx, ports.OrdersNamespace, strconv.FormatInt(orderID, 10), record, ttl)
}

func (t *TrackingStore) Get(ctx context.Context, orderID int64) (*tracking.TrackingOrder, error) {
	var record tracking.TrackingOrder
	found, err := t.store.Get(ctx, ports.OrdersNamespace, strconv.FormatInt(orderID, 10), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewObjectNotFoundError("tracking order", orderID)
	}
	return &record, nil
}

func (t *TrackingStore) Update(ctx context.Context, orderID int64, mutate tracking.Mutation) (*tracking.TrackingOrder, error) {
	key := t.key(orderID)

	for range maxUpdateAttempts {
		var result *tracking.TrackingOrder
		err := t.store.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return errs.NewObjectNotFoundError("tracking order", orderID)
			}
			if err != nil {
				return err
			}

			var record tracking.TrackingOrder
			if err = json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("%w: order %d: %w", ports.ErrCacheValueInvalid, orderID, err)
			}

			changed, err := mutate(&record)
			if err != nil {
				return err
			}
			result = &record
			if !changed {
				return nil
			}

			record.Version++
			if data, err = json.Marshal(&record); err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SetArgs(ctx, key, data, redis.SetArgs{KeepTTL: true})
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: order %d", ErrUpdateConflict, orderID)
}
