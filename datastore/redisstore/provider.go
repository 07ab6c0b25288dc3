/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/redis/go-redis/v9"

	"github.com/dimgraph/dimgraph/datastore"
	"github.com/dimgraph/dimgraph/errors"
)

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Prefix namespaces every key written by the provider (default: "dimgraph")
	Prefix string

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// envelope is the JSON shape of one record in Redis.
type envelope struct {
	Attrs     map[string]any `json:"attrs"`
	Version   string         `json:"version,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

// Provider implements the datastore provider interfaces on top of Redis,
// storing each record as a JSON string under "<prefix>:entity:<id>".
type Provider struct {
	client *redis.Client
	prefix string
}

// New creates a Redis provider with the given options and verifies the
// connection with a ping.
func New(opts Options) (*Provider, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = "dimgraph"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &Provider{client: client, prefix: opts.Prefix}, nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, prefix string) *Provider {
	if prefix == "" {
		prefix = "dimgraph"
	}
	return &Provider{client: client, prefix: prefix}
}

// Close closes the Redis connection.
func (p *Provider) Close() error {
	return p.client.Close()
}

func (p *Provider) key(id string) string {
	return p.prefix + ":entity:" + id
}

// Fetch loads the record stored under id. A missing key surfaces as a
// NotFoundError, which the cache-aside store treats as a plain miss.
func (p *Provider) Fetch(ctx context.Context, id string) (*datastore.Record, error) {
	data, err := p.client.Get(ctx, p.key(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewNotFoundError("record", id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decode(data)
}

// Persist writes the record under id, stamping Version and UpdatedAt.
func (p *Provider) Persist(ctx context.Context, id string, rec *datastore.Record) error {
	env := envelope{
		Attrs:   rec.Attrs,
		Version: rec.Version,
	}
	if env.Version == "" {
		env.Version = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	if rec.UpdatedAt != nil {
		env.UpdatedAt = rec.UpdatedAt.String()
	} else {
		env.UpdatedAt = strfmt.DateTime(time.Now().UTC()).String()
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := p.client.Set(ctx, p.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// CheckChanged reports whether the stored version token differs from the
// given one. A missing key counts as changed.
func (p *Provider) CheckChanged(ctx context.Context, id string, version string) (bool, error) {
	data, err := p.client.Get(ctx, p.key(id)).Bytes()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	rec, err := decode(data)
	if err != nil {
		return false, err
	}
	return rec.Version != version, nil
}

// Delete removes the record stored under id.
func (p *Provider) Delete(ctx context.Context, id string) error {
	if err := p.client.Del(ctx, p.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Scan enumerates every record under the provider's prefix.
func (p *Provider) Scan(ctx context.Context) (<-chan datastore.ScanItem, <-chan error) {
	items := make(chan datastore.ScanItem, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		keyPrefix := p.prefix + ":entity:"
		iter := p.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			id := strings.TrimPrefix(key, keyPrefix)

			data, err := p.client.Get(ctx, key).Bytes()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				errs <- fmt.Errorf("redis get %s: %w", key, err)
				continue
			}
			rec, err := decode(data)
			if err != nil {
				errs <- err
				continue
			}

			select {
			case items <- datastore.ScanItem{ID: id, Record: rec}:
			case <-ctx.Done():
				return
			}
		}
		if err := iter.Err(); err != nil {
			errs <- fmt.Errorf("redis scan: %w", err)
		}
	}()
	return items, errs
}

func decode(data []byte) (*datastore.Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	rec := &datastore.Record{
		Attrs:   env.Attrs,
		Version: env.Version,
	}
	if env.UpdatedAt != "" {
		if ts, err := strfmt.ParseDateTime(env.UpdatedAt); err == nil {
			rec.UpdatedAt = &ts
		}
	}
	return rec, nil
}
