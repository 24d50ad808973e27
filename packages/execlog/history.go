package execlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/hitrelay/packages/store"
)

// History loads every record written for executionID, in write order.
func History(ctx context.Context, reader store.Reader, executionID string) ([]Record, error) {
	raw, err := reader.ListRecords(ctx, TableName, executionID)
	if err != nil {
		return nil, fmt.Errorf("list execution %s: %w", executionID, err)
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("decode execution %s record %d: %w", executionID, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Parent returns the parent record among records, if any.
func Parent(records []Record) (*Record, bool) {
	for i := range records {
		if records[i].IsParent() {
			return &records[i], true
		}
	}
	return nil, false
}
