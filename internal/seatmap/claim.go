package seatmap

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AtomicClaimOperations handles atomic Redis operations for claiming seats
// at confirmation time. A claim is keyed by (trip, seat) and owned by the
// confirming reservation; unlike a temporary hold it has no expiry, because
// a successful claim is immediately made durable in the seats table.
type AtomicClaimOperations struct {
	redis *redis.Client
}

// NewAtomicClaimOperations creates a new atomic claim handler
func NewAtomicClaimOperations(redisClient *redis.Client) *AtomicClaimOperations {
	return &AtomicClaimOperations{
		redis: redisClient,
	}
}

// Lua script for atomic all-or-nothing seat claiming.
// A seat already claimed by the same reservation does not count as a
// conflict, so a retried confirmation stays idempotent.
const luaAtomicSeatClaim = `
-- KEYS[1] = trip_id
-- ARGV[1] = reservation_id
-- ARGV[2..N] = seat_ids

local trip_id = KEYS[1]
local reservation_id = ARGV[1]

-- Check every seat before touching any of them
for i = 2, #ARGV do
    local claim_key = "seat_claim:" .. trip_id .. ":" .. ARGV[i]
    local owner = redis.call("GET", claim_key)

    if owner and owner ~= reservation_id then
        -- Claimed by a different reservation: fail the whole batch
        return {0, ARGV[i]}
    end
end

-- All free (or already ours), claim the batch
for i = 2, #ARGV do
    local claim_key = "seat_claim:" .. trip_id .. ":" .. ARGV[i]
    redis.call("SET", claim_key, reservation_id)
end

return {1, "success"}
`

// Lua script to release a batch of claims, used when a confirmation fails
// after the claim step. Only claims owned by the releasing reservation are
// removed.
const luaAtomicSeatRelease = `
-- KEYS[1] = trip_id
-- ARGV[1] = reservation_id
-- ARGV[2..N] = seat_ids

local trip_id = KEYS[1]
local reservation_id = ARGV[1]
local released = 0

for i = 2, #ARGV do
    local claim_key = "seat_claim:" .. trip_id .. ":" .. ARGV[i]
    local owner = redis.call("GET", claim_key)

    if owner == reservation_id then
        redis.call("DEL", claim_key)
        released = released + 1
    end
end

return {1, released}
`

// ClaimSeats atomically claims every seat in the batch for the reservation.
// Returns ErrSeatConflict (wrapped with the conflicting seat ID) if any seat
// is owned by another reservation; in that case nothing was written.
func (a *AtomicClaimOperations) ClaimSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available - seat claiming disabled")
	}

	keys := []string{tripID.String()}
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, reservationID.String())
	for _, seatID := range seatIDs {
		args = append(args, seatID.String())
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicSeatClaim, keys, args...).Result()
	if err != nil {
		// Script not loaded yet, fall back to plain EVAL
		result, err = a.redis.Eval(ctx, luaAtomicSeatClaim, keys, args...).Result()
		if err != nil {
			return fmt.Errorf("failed to execute atomic seat claim: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from claim script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in claim script result")
	}

	if success == 0 {
		if conflictSeat, ok := resultArray[1].(string); ok {
			return fmt.Errorf("%w: seat %s", ErrSeatConflict, conflictSeat)
		}
		return ErrSeatConflict
	}

	return nil
}

// ReleaseSeats removes the reservation's claims on the given seats. Claims
// owned by other reservations are left untouched. Returns the number of
// claims actually released.
func (a *AtomicClaimOperations) ReleaseSeats(ctx context.Context, tripID, reservationID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available - seat claiming disabled")
	}

	keys := []string{tripID.String()}
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, reservationID.String())
	for _, seatID := range seatIDs {
		args = append(args, seatID.String())
	}

	result, err := a.redis.EvalSha(ctx, luaAtomicSeatRelease, keys, args...).Result()
	if err != nil {
		result, err = a.redis.Eval(ctx, luaAtomicSeatRelease, keys, args...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
		}
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from release script")
	}

	releasedCount, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in release script result")
	}

	return int(releasedCount), nil
}

// PreloadScripts loads the Lua scripts into Redis so the hot path can use
// EVALSHA from the first request on.
func (a *AtomicClaimOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicSeatClaim).Result(); err != nil {
		return fmt.Errorf("failed to load seat claim script: %w", err)
	}

	if _, err := a.redis.ScriptLoad(ctx, luaAtomicSeatRelease).Result(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}
