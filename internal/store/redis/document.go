package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/domain"
)

// DefaultDocumentTTL bounds how long a snapshot outlives its last reload.
const DefaultDocumentTTL = 7 * 24 * time.Hour

// Store persists document snapshots and view counters.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveDocumentsMany stores documents in a single pipeline.
func (s *Store) SaveDocumentsMany(ctx context.Context, docs []*content.Document) error {
	if len(docs) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", doc.Address, err)
		}
		pipe.Set(ctx, DocumentKey(doc.Address), data, DefaultDocumentTTL)
		pipe.SAdd(ctx, KeyAllDocuments, doc.Address.String())
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	return nil
}

// GetDocument returns the snapshot at addr, or domain.ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, addr content.Address) (*content.Document, error) {
	data, err := s.client.Get(ctx, DocumentKey(addr)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("document %s: %w", addr, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc content.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// GetAllDocuments returns every snapshot still present. Members whose key
// expired are dropped from the set.
func (s *Store) GetAllDocuments(ctx context.Context) ([]*content.Document, error) {
	members, err := s.client.SMembers(ctx, KeyAllDocuments).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*content.Document, 0, len(members))
	for _, m := range members {
		addr, err := content.ParseAddress(m)
		if err != nil {
			continue
		}
		doc, err := s.GetDocument(ctx, addr)
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.client.SRem(ctx, KeyAllDocuments, m).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteDocument removes a snapshot.
func (s *Store) DeleteDocument(ctx context.Context, addr content.Address) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, DocumentKey(addr))
	pipe.SRem(ctx, KeyAllDocuments, addr.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
