package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type memoryRow struct {
	partitionKey string
	sortKey      string
	body         json.RawMessage
}

// MemoryDatabase selects the in-memory store in place of a database path.
const MemoryDatabase = "memory"

// Memory keeps records in process memory. Every put appends; nothing is
// overwritten.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]memoryRow
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]memoryRow)}
}

func (m *Memory) PutRecord(ctx context.Context, table string, record any) (PutResult, error) {
	if table == "" {
		return PutResult{}, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}

	body, err := json.Marshal(record)
	if err != nil {
		return PutResult{}, fmt.Errorf("marshal record: %w", err)
	}
	pk, sk := RecordKey(record)

	m.mu.Lock()
	m.tables[table] = append(m.tables[table], memoryRow{partitionKey: pk, sortKey: sk, body: body})
	m.mu.Unlock()

	return PutResult{OK: true}, nil
}

func (m *Memory) ListRecords(ctx context.Context, table, partitionKey string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]json.RawMessage, 0)
	for _, row := range m.tables[table] {
		if row.partitionKey == partitionKey {
			records = append(records, row.body)
		}
	}
	return records, nil
}

// Len returns the number of records in table.
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}
