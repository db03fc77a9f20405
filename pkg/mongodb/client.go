package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// Client is a process-wide, lazily-initialized MongoDB connection. Nothing
// is dialed at construction time; the first caller that needs the database
// establishes the connection, and concurrent first callers converge on that
// one attempt instead of racing to open several. The live handle is then
// reused for the lifetime of the process; there is no teardown short of
// Disconnect at shutdown.
//
// A failed attempt is not cached: the next caller simply retries, so a
// store that was unreachable at startup does not poison the process.
type Client struct {
	uri      string
	database string

	mu     sync.Mutex
	client *mongo.Client
}

func New(uri, database string) *Client {
	return &Client{
		uri:      uri,
		database: database,
	}
}

// Database returns the shared database handle, connecting on first use.
func (c *Client) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		client, err := c.connect(ctx)
		if err != nil {
			return nil, err
		}
		c.client = client
	}

	return c.client.Database(c.database), nil
}

// Disconnect releases the connection if one was ever established.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}

func (c *Client) connect(ctx context.Context) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	// URI options take precedence over these defaults.
	client, err := mongo.Connect(connectCtx, options.Client().
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(pingTimeout).
		ApplyURI(c.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}
