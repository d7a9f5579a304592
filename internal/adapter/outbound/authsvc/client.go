package authsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/etaskify/server/internal/port/outbound"
)

// Config holds auth service client configuration.
type Config struct {
	// BaseURL is the auth service base URL.
	BaseURL string

	// Timeout bounds each request to the auth service.
	Timeout time.Duration

	// CacheTTL is how long directory lookups are cached. Zero disables caching.
	CacheTTL time.Duration
}

// CacheMetrics records directory cache outcomes.
type CacheMetrics interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

// Client talks to the external auth service. It implements both the
// identity resolver and the directory lookup ports.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    redis.UniversalClient
	cacheTTL time.Duration
	metrics  CacheMetrics
	logger   *zap.Logger
}

// NewClient creates a new auth service client. cache and metrics may be
// nil, in which case lookups always hit the auth service uncounted.
func NewClient(cfg Config, cache redis.UniversalClient, metrics CacheMetrics, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: timeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// Validate resolves the credential to a user ID via the auth service.
func (c *Client) Validate(ctx context.Context, credential string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/token/validate", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, c.transportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var user outbound.UserInfo
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return 0, outbound.ErrCollaboratorUnavailable
		}
		return user.ID, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return 0, outbound.ErrUnauthorized
	default:
		c.logger.Warn("auth service returned unexpected status",
			zap.Int("status", resp.StatusCode),
		)
		return 0, outbound.ErrCollaboratorUnavailable
	}
}

// FindByUsername retrieves a user by username from the auth service.
func (c *Client) FindByUsername(ctx context.Context, username string) (*outbound.UserInfo, error) {
	key := "directory:username:" + username
	if user := c.cached(ctx, key); user != nil {
		return user, nil
	}

	user, err := c.fetchUser(ctx, c.baseURL+"/user/search/"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, user)
	return user, nil
}

// FindByID retrieves a user by ID from the auth service.
func (c *Client) FindByID(ctx context.Context, id int64) (*outbound.UserInfo, error) {
	key := fmt.Sprintf("directory:id:%d", id)
	if user := c.cached(ctx, key); user != nil {
		return user, nil
	}

	user, err := c.fetchUser(ctx, fmt.Sprintf("%s/user/%d", c.baseURL, id))
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, user)
	return user, nil
}

func (c *Client) fetchUser(ctx context.Context, endpoint string) (*outbound.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var user outbound.UserInfo
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, outbound.ErrCollaboratorUnavailable
		}
		return &user, nil
	case http.StatusNotFound:
		return nil, outbound.ErrUserNotFound
	default:
		c.logger.Warn("auth service returned unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("endpoint", endpoint),
		)
		return nil, outbound.ErrCollaboratorUnavailable
	}
}

// transportError maps connection and timeout failures to the retryable
// collaborator error.
func (c *Client) transportError(err error) error {
	c.logger.Warn("auth service request failed", zap.Error(err))
	return outbound.ErrCollaboratorUnavailable
}

func (c *Client) cached(ctx context.Context, key string) *outbound.UserInfo {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		c.recordCache(false)
		return nil
	}
	var user outbound.UserInfo
	if err := json.Unmarshal(raw, &user); err != nil {
		c.recordCache(false)
		return nil
	}
	c.recordCache(true)
	return &user
}

func (c *Client) recordCache(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.RecordCacheHit("directory")
	} else {
		c.metrics.RecordCacheMiss("directory")
	}
}

func (c *Client) store(ctx context.Context, key string, user *outbound.UserInfo) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Debug("directory cache write failed", zap.Error(err))
	}
}

// Compile-time interface checks
var (
	_ outbound.IdentityResolverPort = (*Client)(nil)
	_ outbound.DirectoryPort        = (*Client)(nil)
)
