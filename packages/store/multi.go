package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Multi writes every record to all of its stores. The write is OK only when
// every store accepted it. Reads go to the first store that can list records.
type Multi struct {
	stores []Store
}

// NewMulti combines stores; nil entries are ignored.
func NewMulti(stores ...Store) *Multi {
	m := &Multi{}
	for _, s := range stores {
		if s != nil {
			m.stores = append(m.stores, s)
		}
	}
	return m
}

func (m *Multi) PutRecord(ctx context.Context, table string, record any) (PutResult, error) {
	result := PutResult{OK: true}
	var errs []error
	var messages []string

	for _, s := range m.stores {
		res, err := s.PutRecord(ctx, table, record)
		if err != nil {
			errs = append(errs, err)
			result.OK = false
			continue
		}
		if !res.OK {
			result.OK = false
			if res.Message != "" {
				messages = append(messages, res.Message)
			}
		}
	}

	result.Message = strings.Join(messages, "; ")
	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}
	return result, nil
}

func (m *Multi) ListRecords(ctx context.Context, table, partitionKey string) ([]json.RawMessage, error) {
	for _, s := range m.stores {
		if r, ok := s.(Reader); ok {
			return r.ListRecords(ctx, table, partitionKey)
		}
	}
	return nil, ErrReadUnsupported
}
