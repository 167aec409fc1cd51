package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request holds the slot lock.
var ErrSlotLocked = errors.New("slot is being booked by another request")

// releaseSlotLockScript deletes the lock only when it still carries our
// token, so an expired lock re-acquired by someone else is left alone.
var releaseSlotLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisSlotLockKeyPrefix = "appointment:slot_lock:"

	// Release runs after the request context may already be cancelled.
	slotLockReleaseTimeout = 2 * time.Second
)

// SlotLockService serializes booking attempts for one doctor and instant
// across API instances. The partial unique index on appointments remains the
// authority; the lock keeps losers from reaching the insert at all.
type SlotLockService interface {
	// Acquire returns a release func, or ErrSlotLocked.
	Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error)
}

type redisSlotLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotLockService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) SlotLockService {
	return &redisSlotLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func slotLockKey(doctorID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotLockKeyPrefix, doctorID, at.Unix())
}

func (s *redisSlotLockService) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	key := slotLockKey(doctorID, at)
	token := uuid.NewString()

	ok, err := s.redisClient.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		s.log.Warnf("Failed to acquire slot lock %s: %+v", key, err)
		return nil, fmt.Errorf("acquire slot lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), slotLockReleaseTimeout)
		defer cancel()
		if err := releaseSlotLockScript.Run(releaseCtx, s.redisClient, []string{key}, token).Err(); err != nil {
			s.log.Warnf("Failed to release slot lock %s (expires in %v): %+v", key, s.ttl, err)
		}
	}
	return release, nil
}
