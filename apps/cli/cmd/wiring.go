package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitrelay/packages/core/config"
	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	hhttp "github.com/abdul-hamid-achik/hitrelay/packages/http"
	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/abdul-hamid-achik/hitrelay/packages/store"
)

func newClient(c *config.Config) *hhttp.Client {
	opts := []hhttp.ClientOption{
		hhttp.WithFollowRedirects(c.GetFollowRedirects()),
		hhttp.WithValidateSSL(c.GetValidateSSL()),
	}
	if c.Timeout > 0 {
		opts = append(opts, hhttp.WithTimeout(time.Duration(c.Timeout)*time.Millisecond))
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, hhttp.WithMaxRedirects(c.MaxRedirects))
	}
	if c.Proxy != "" {
		opts = append(opts, hhttp.WithProxy(c.Proxy))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, hhttp.WithDefaultHeaders(c.Headers))
	}
	return hhttp.NewClient(opts...)
}

// backend is the store stack built from config: SQLite (or process memory)
// for history plus an optional MQTT mirror.
type backend struct {
	reader store.Reader
	memory *store.Memory
	store  *store.Multi
	closer func()
}

func openBackend(c *config.Config) (*backend, error) {
	b := &backend{}
	var (
		stores  []store.Store
		closers []func()
	)

	if strings.TrimSpace(c.Database) == store.MemoryDatabase {
		b.memory = store.NewMemory()
		b.reader = b.memory
		stores = append(stores, b.memory)
	} else {
		sqlite, err := store.NewSQLite(c.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		b.reader = sqlite
		stores = append(stores, sqlite)
		closers = append(closers, func() { sqlite.Close() })
	}

	if c.MQTTBroker != "" {
		client, err := store.DialMQTT(c.MQTTBroker)
		if err != nil {
			// History keeps working without the mirror.
			hitlog.GetLogger().WithError(err).Warn("MQTT mirror disabled")
		} else {
			stores = append(stores, store.NewMQTT(client, store.WithTopicPrefix(c.MQTTTopicPrefix)))
			closers = append(closers, func() { client.Disconnect(250) })
		}
	}

	b.store = store.NewMulti(stores...)
	b.closer = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return b, nil
}

func (b *backend) Close() {
	if b.memory != nil {
		hitlog.GetLogger().
			WithField("records", b.memory.Len(execlog.TableName)).
			Warn("Discarding in-memory execution records")
	}
	if b.closer != nil {
		b.closer()
	}
}

// openSQLite opens the configured database for commands that read it back
// after the serving process is gone.
func openSQLite(c *config.Config) (*store.SQLite, error) {
	if strings.TrimSpace(c.Database) == store.MemoryDatabase {
		return nil, fmt.Errorf("database %q keeps no records between processes", store.MemoryDatabase)
	}
	db, err := store.NewSQLite(c.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
