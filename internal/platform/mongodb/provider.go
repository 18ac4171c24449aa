// Package mongodb owns the shared MongoDB client used by every repository.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/brightfold/api/internal/platform/config"
)

const defaultConnectTimeout = 10 * time.Second

// ErrProviderClosed indicates the provider was closed and cannot be reused.
var ErrProviderClosed = errors.New("mongodb: provider is closed")

type initResult struct {
	client *mongo.Client
	err    error
}

// Provider lazily initialises a single shared MongoDB client. All repositories
// resolve their collections through the same provider so the process holds one
// connection pool.
type Provider struct {
	cfg            config.MongoConfig
	connectTimeout time.Duration
	clientOpts     []*options.ClientOptions

	stateMu sync.Mutex
	initCh  chan initResult
	client  *mongo.Client

	closed atomic.Bool
}

// ProviderOption customises Provider behaviour.
type ProviderOption func(*Provider)

// WithConnectTimeout overrides the timeout used when dialing the deployment.
func WithConnectTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) {
		if timeout > 0 {
			p.connectTimeout = timeout
		}
	}
}

// WithClientOptions appends driver options applied during initialisation.
func WithClientOptions(opts ...*options.ClientOptions) ProviderOption {
	return func(p *Provider) {
		if len(opts) > 0 {
			p.clientOpts = append(p.clientOpts, opts...)
		}
	}
}

// NewProvider constructs a Provider using the supplied configuration.
func NewProvider(cfg config.MongoConfig, opts ...ProviderOption) *Provider {
	provider := &Provider{
		cfg:            cfg,
		connectTimeout: defaultConnectTimeout,
	}
	if cfg.ConnectTimeout > 0 {
		provider.connectTimeout = cfg.ConnectTimeout
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider
}

// Client returns the lazily initialised MongoDB client. Concurrent callers
// during initialisation share a single connect attempt.
func (p *Provider) Client(ctx context.Context) (*mongo.Client, error) {
	if ctx == nil {
		return nil, errors.New("mongodb: context is required")
	}

	for {
		if p.closed.Load() {
			return nil, ErrProviderClosed
		}

		p.stateMu.Lock()
		if p.client != nil {
			client := p.client
			p.stateMu.Unlock()
			return client, nil
		}
		if p.closed.Load() {
			p.stateMu.Unlock()
			return nil, ErrProviderClosed
		}
		if waitCh := p.initCh; waitCh != nil {
			p.stateMu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case res := <-waitCh:
				if res.err != nil {
					return nil, res.err
				}
				if p.closed.Load() {
					return nil, ErrProviderClosed
				}
				return res.client, nil
			}
		}

		waitCh := make(chan initResult, 1)
		p.initCh = waitCh
		p.stateMu.Unlock()

		client, err := p.connect(ctx)

		p.stateMu.Lock()
		if err != nil {
			p.client = nil
			p.initCh = nil
			p.stateMu.Unlock()
			waitCh <- initResult{err: err}
			close(waitCh)
			return nil, err
		}
		p.client = client
		p.initCh = nil
		p.stateMu.Unlock()

		waitCh <- initResult{client: client}
		close(waitCh)

		if p.closed.Load() {
			return nil, ErrProviderClosed
		}
		return client, nil
	}
}

// Database resolves the configured database handle.
func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(p.cfg.Database), nil
}

// Collection resolves a named collection in the configured database.
func (p *Provider) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

func (p *Provider) connect(ctx context.Context) (*mongo.Client, error) {
	uri := strings.TrimSpace(p.cfg.URI)
	if uri == "" {
		return nil, errors.New("mongodb: connection uri is required")
	}
	if strings.TrimSpace(p.cfg.Database) == "" {
		return nil, errors.New("mongodb: database name is required")
	}

	ctxWithTimeout := ctx
	var cancel context.CancelFunc
	if p.connectTimeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, p.connectTimeout)
	}
	if cancel != nil {
		defer cancel()
	}

	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, p.clientOpts...)
	client, err := mongo.Connect(ctxWithTimeout, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(ctxWithTimeout, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client, nil
}

// Ping verifies connectivity against the primary, used by readiness probes.
func (p *Provider) Ping(ctx context.Context) error {
	client, err := p.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client. The Provider cannot be reused afterwards.
func (p *Provider) Close(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var client *mongo.Client

	for {
		if p.closed.Load() {
			return nil
		}

		p.stateMu.Lock()
		if waitCh := p.initCh; waitCh != nil {
			p.stateMu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-waitCh:
			}
			continue
		}
		if p.closed.CompareAndSwap(false, true) {
			client = p.client
			p.client = nil
		}
		p.stateMu.Unlock()
		break
	}

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb: disconnect: %w", err)
	}
	return nil
}
