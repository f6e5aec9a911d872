// Package agentinfo resolves agent identity from a central Redis
// registry. Fleets that pre-provision their hosts keep a hash of
// per-host identity records; an agent looks its own hostname up at
// startup and tags every metric with the result.
package agentinfo

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"svckit/internal/config"
)

// Identity describes where an agent runs and who owns it.
type Identity struct {
	Site        string
	Environment string
	AgentID     string
	Rack        string
	Owner       string
}

// ParseIdentityValue parses a colon-separated AGENT_INFO value.
// Expected format: "site:environment:agentID:rack:owner".
func ParseIdentityValue(value string) (*Identity, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid AGENT_INFO value: expected 5 colon-separated segments, got %d in %q", len(parts), value)
	}

	return &Identity{
		Site:        parts[0],
		Environment: parts[1],
		AgentID:     parts[2],
		Rack:        parts[3],
		Owner:       parts[4],
	}, nil
}

// Tags returns the identity as metric tags, skipping empty fields.
func (id *Identity) Tags() map[string]string {
	tags := make(map[string]string)
	if id.Site != "" {
		tags["site"] = id.Site
	}
	if id.Environment != "" {
		tags["env"] = id.Environment
	}
	if id.Rack != "" {
		tags["rack"] = id.Rack
	}
	if id.Owner != "" {
		tags["owner"] = id.Owner
	}
	return tags
}

// Fetch retrieves the identity record for hostname from Redis.
// dialFunc is optional; when non-nil it is used as the dialer, which
// lets callers route the lookup through a SOCKS proxy.
// Returns nil (not an error) when no record exists for the host or
// when no Redis address is configured.
func Fetch(ctx context.Context, cfg config.RedisConfig,
	dialFunc func(network, addr string) (net.Conn, error),
	hostname string) (*Identity, error) {

	if cfg.Address == "" {
		return nil, nil
	}

	client := newRedisClient(cfg, dialFunc)
	defer client.Close()

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	value, err := client.HGet(queryCtx, "AGENT_INFO", hostname).Result()
	if err == redis.Nil {
		// Unknown host, normal for machines not yet provisioned.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis HGET AGENT_INFO %s failed: %w", hostname, err)
	}

	return ParseIdentityValue(value)
}

func newRedisClient(cfg config.RedisConfig, dialFunc func(network, addr string) (net.Conn, error)) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if dialFunc != nil {
		opts.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialFunc(network, addr)
		}
	}

	return redis.NewClient(opts)
}
