package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-busbooking/internal/logger"

	"github.com/go-redis/redis/v8"
)

const holdKeyPrefix = "seat_hold:"

// DefaultHoldTTL applies when SeatHolds is built with a zero TTL.
const DefaultHoldTTL = 5 * time.Minute

// SeatHolds reserves seats on a schedule for the duration of a checkout.
// A hold is a key per seat owned by a hold id; it expires on its own.
type SeatHolds struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewSeatHolds(client *redis.Client, ttl time.Duration, log *logger.Logger) *SeatHolds {
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	return &SeatHolds{Client: client, TTL: ttl, Logger: log}
}

func holdKey(scheduleID, seat string) string {
	return fmt.Sprintf("%s%s:%s", holdKeyPrefix, scheduleID, seat)
}

// Holder returns the hold id owning the seat, or "" if it is free.
func (h *SeatHolds) Holder(ctx context.Context, scheduleID, seat string) (string, error) {
	val, err := h.Client.Get(ctx, holdKey(scheduleID, seat)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// HeldBy lists the seats among seats currently held by someone other than holdID.
func (h *SeatHolds) HeldBy(ctx context.Context, scheduleID string, seats []string, holdID string) ([]string, error) {
	var held []string
	for _, seat := range seats {
		owner, err := h.Holder(ctx, scheduleID, seat)
		if err != nil {
			return nil, err
		}
		if owner != "" && owner != holdID {
			held = append(held, seat)
		}
	}
	return held, nil
}

// Hold takes every seat for holdID or none of them. Seats already owned by
// holdID are refreshed.
func (h *SeatHolds) Hold(ctx context.Context, scheduleID string, seats []string, holdID string) (bool, error) {
	taken := make([]string, 0, len(seats))
	release := func() {
		if err := h.Release(ctx, scheduleID, taken, holdID); err != nil {
			h.Logger.Warn("REDIS", fmt.Sprintf("Rollback of hold %s failed: %v", holdID, err))
		}
	}

	for _, seat := range seats {
		key := holdKey(scheduleID, seat)
		ok, err := h.Client.SetNX(ctx, key, holdID, h.TTL).Result()
		if err != nil {
			release()
			return false, err
		}
		if !ok {
			owner, err := h.Client.Get(ctx, key).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				release()
				return false, err
			}
			if owner != holdID {
				release()
				h.Logger.Debug("REDIS", fmt.Sprintf("Seat %s on %s already held", seat, scheduleID))
				return false, nil
			}
			if err := h.Client.Expire(ctx, key, h.TTL).Err(); err != nil {
				release()
				return false, err
			}
		}
		taken = append(taken, seat)
	}

	h.Logger.Info("REDIS", fmt.Sprintf("Hold %s took %d seat(s) on %s for %s", holdID, len(seats), scheduleID, h.TTL))
	return true, nil
}

// Release drops the seats owned by holdID. Seats held by others are left alone.
func (h *SeatHolds) Release(ctx context.Context, scheduleID string, seats []string, holdID string) error {
	var firstErr error
	for _, seat := range seats {
		key := holdKey(scheduleID, seat)
		owner, err := h.Client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if owner != holdID {
			continue
		}
		if err := h.Client.Del(ctx, key).Err(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
