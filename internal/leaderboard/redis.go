package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set holding the global board.
const DefaultRedisKey = "mathrush:leaderboard"

// Redis is a global leaderboard stored in a Redis sorted set.
// Each player keeps only their best score.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a leaderboard on the given sorted-set key.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

// SubmitScore records score if it beats the player's previous best.
func (r *Redis) SubmitScore(ctx context.Context, player string, score int) error {
	err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: player}},
	}).Err()
	if err != nil {
		return fmt.Errorf("leaderboard: cannot submit score: %w", err)
	}
	return nil
}

// Top returns the n best players, highest first.
func (r *Redis) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}

	zs, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot query top scores: %w", err)
	}

	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		player, _ := z.Member.(string)
		entries = append(entries, Entry{Player: player, Score: int(z.Score)})
	}
	return entries, nil
}

// Rank returns the player's 1-based position and best score.
// ok is false when the player has never submitted.
func (r *Redis) Rank(ctx context.Context, player string) (rank, score int, ok bool, err error) {
	pos, err := r.client.ZRevRank(ctx, r.key, player).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("leaderboard: cannot query rank: %w", err)
	}

	best, err := r.client.ZScore(ctx, r.key, player).Result()
	if err != nil {
		return 0, 0, false, fmt.Errorf("leaderboard: cannot query score: %w", err)
	}
	return int(pos) + 1, int(best), true, nil
}
