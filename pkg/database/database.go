// Package database provides the MongoDB connection used for the moderation
// audit trail. Writes issued while offline are queued and replayed once the
// connection comes back.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotConnected is returned by reads while the database is offline.
var ErrNotConnected = errors.New("not connected to database")

const (
	opInsert = "insert"
	opDelete = "delete"

	reconnectInterval = 15 * time.Second
	maxQueuedWrites   = 1000
)

// QueuedOperation is a write waiting for the connection to come back.
type QueuedOperation struct {
	CollectionName string
	Operation      string
	Query          bson.M
	Data           interface{}
}

// Database manages the MongoDB connection.
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	url         string
	name        string
	connected   bool
	reconnect   *time.Ticker
	stop        chan struct{}
	stopOnce    sync.Once
	collections map[string]*mongo.Collection
	mu          sync.RWMutex

	queueMu    sync.Mutex
	writeQueue []QueuedOperation
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init connects the global database instance. A failed first attempt keeps
// retrying in the background; the returned instance is usable either way.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance, nil when Init was never called.
func Get() *Database {
	return database
}

// NewDatabase creates a disconnected Database.
func NewDatabase() *Database {
	return &Database{
		stop:        make(chan struct{}),
		collections: make(map[string]*mongo.Collection),
	}
}

// Connect establishes the connection to MongoDB.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}
	d.url, d.name = mongoURL, dbName

	logger.System("Connecting to the database...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		logger.Critical("Failed to connect to the database: "+err.Error(), "DB")
		d.startReconnect()
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Failed to ping the database: "+err.Error(), "DB")
		_ = client.Disconnect(ctx)
		d.startReconnect()
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.connected = true

	logger.Success("Connected to the database.", "DB")

	if d.reconnect != nil {
		d.reconnect.Stop()
		d.reconnect = nil
	}

	go d.syncOfflineWrites()
	return nil
}

// markDisconnected switches to offline mode after a failed write.
func (d *Database) markDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return
	}
	d.connected = false
	logger.Warn("Lost the database connection. Switching to offline mode.", "DB")
	d.startReconnect()
}

// startReconnect must be called with d.mu held.
func (d *Database) startReconnect() {
	if d.reconnect != nil || d.url == "" {
		return
	}
	ticker := time.NewTicker(reconnectInterval)
	d.reconnect = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Retrying the database connection...", "DB")
				if err := d.Connect(d.url, d.name); err == nil {
					return
				}
			case <-d.stop:
				return
			}
		}
	}()
}

// Disconnect closes the connection and stops reconnect attempts.
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stop) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnect != nil {
		d.reconnect.Stop()
		d.reconnect = nil
	}
	if d.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.connected = false
	logger.Warn("Database disconnected", "DB")
	return nil
}

// IsConnected reports whether the last connection attempt succeeded.
func (d *Database) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Ping measures the database round trip.
func (d *Database) Ping() (time.Duration, error) {
	d.mu.RLock()
	client, connected := d.client, d.connected
	d.mu.RUnlock()

	if !connected || client == nil {
		return 0, ErrNotConnected
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns a display label and whether the database answers pings.
func (d *Database) GetStatus() (string, bool) {
	if _, err := d.Ping(); err != nil {
		return "🔴 | Offline", false
	}
	return "🟢 | Online", true
}

// GetCollection returns a cached collection handle, nil while offline.
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	col, ok := d.collections[name]
	db := d.db
	d.mu.RUnlock()
	if ok {
		return col
	}
	if db == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	col = db.Collection(name)
	d.collections[name] = col
	return col
}

// Insert writes a document, queueing it when the database is offline.
func (d *Database) Insert(ctx context.Context, collection string, doc interface{}) error {
	return d.write(ctx, QueuedOperation{CollectionName: collection, Operation: opInsert, Data: doc})
}

// Delete removes the first document matching query.
func (d *Database) Delete(ctx context.Context, collection string, query bson.M) error {
	return d.write(ctx, QueuedOperation{CollectionName: collection, Operation: opDelete, Query: query})
}

func (d *Database) write(ctx context.Context, op QueuedOperation) error {
	if !d.IsConnected() {
		d.AddToWriteQueue(op)
		return nil
	}

	col := d.GetCollection(op.CollectionName)
	if col == nil {
		d.AddToWriteQueue(op)
		return nil
	}

	if err := apply(ctx, col, op); err != nil {
		if isConnectionError(err) {
			d.AddToWriteQueue(op)
			d.markDisconnected()
			return nil
		}
		return err
	}
	return nil
}

func apply(ctx context.Context, col *mongo.Collection, op QueuedOperation) error {
	var err error
	switch op.Operation {
	case opInsert:
		_, err = col.InsertOne(ctx, op.Data)
	case opDelete:
		_, err = col.DeleteOne(ctx, op.Query)
	default:
		err = fmt.Errorf("unknown operation %q", op.Operation)
	}
	return err
}

func isConnectionError(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected)
}

// AddToWriteQueue queues a write for replay. The oldest entry is dropped
// once the queue is full.
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	if len(d.writeQueue) >= maxQueuedWrites {
		d.writeQueue = d.writeQueue[1:]
	}
	d.writeQueue = append(d.writeQueue, op)
}

// QueueLength returns the number of writes waiting for replay.
func (d *Database) QueueLength() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}
	operations := d.writeQueue
	d.writeQueue = nil
	d.queueMu.Unlock()

	logger.System(fmt.Sprintf("Syncing %d pending operations with the DB...", len(operations)), "DB-Sync")

	var failed []QueuedOperation
	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failed = append(failed, op)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := apply(ctx, col, op)
		cancel()
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to sync operation for '%s': %v", op.CollectionName, err), "DB-Sync")
			if isConnectionError(err) {
				failed = append(failed, op)
			}
		}
	}

	if len(failed) > 0 {
		for _, op := range failed {
			d.AddToWriteQueue(op)
		}
		logger.Warn(fmt.Sprintf("%d operations will be retried.", len(failed)), "DB-Sync")
		return
	}
	logger.Success("Offline writes synced.", "DB-Sync")
}

// Client returns the underlying MongoDB client.
func (d *Database) Client() *mongo.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}
