// Package store is the execution store client: a narrow key-value style
// write contract plus read support for stores that can list what they hold.
package store

import (
	"context"
	"encoding/json"
)

// PutResult reports whether a write was accepted by the store.
type PutResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Keyed is implemented by records that carry their own partition and sort key.
type Keyed interface {
	RecordKey() (partitionKey, sortKey string)
}

// Store writes records to named tables. Implementations must be safe for
// concurrent use. A store may report a rejected write either with
// PutResult.OK == false or with an error.
type Store interface {
	PutRecord(ctx context.Context, table string, record any) (PutResult, error)
}

// Reader lists the records stored under a partition key, oldest first.
type Reader interface {
	ListRecords(ctx context.Context, table, partitionKey string) ([]json.RawMessage, error)
}

// RecordKey returns the partition and sort key of record, or empty strings
// when the record does not carry keys.
func RecordKey(record any) (string, string) {
	if k, ok := record.(Keyed); ok {
		return k.RecordKey()
	}
	return "", ""
}
