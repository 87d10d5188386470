package redis

import (
	"context"
	"fmt"
	"strconv"
)

// IncrementPostViews bumps the view counter of a post and returns the new value.
func (s *Store) IncrementPostViews(ctx context.Context, id string) (int64, error) {
	n, err := s.client.Incr(ctx, PostViewsKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment views for post %s: %w", id, err)
	}
	return n, nil
}

// GetPostViews returns every post view counter, keyed by post id.
func (s *Store) GetPostViews(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)

	iter := s.client.Scan(ctx, 0, KeyPrefixPostViews+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := ExtractPostID(key)
		if err != nil {
			continue
		}
		raw, err := s.client.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		stats[id] = n
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan view counters: %w", err)
	}

	return stats, nil
}

// ResetPostViews deletes every view counter.
func (s *Store) ResetPostViews(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixPostViews+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete view counter: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to reset view counters: %w", err)
	}
	return nil
}
