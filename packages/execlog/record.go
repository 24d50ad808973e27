// Package execlog records an audit trail of executions: one write-only
// record per request attempt, or per page for paginated executions.
package execlog

// TableName is the store table execution records are written to.
const TableName = "executions"

// Status is the lifecycle state carried by parent records only.
type Status string

const (
	StatusStarted    Status = "started"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// PaginationType names how an execution is split into pages. Multi-page
// strategies use their own tag.
type PaginationType string

const (
	PaginationNone   PaginationType = "none"
	PaginationSingle PaginationType = "single"
)

// StringValue is a string scalar in the store's native attribute form.
type StringValue struct {
	S string `json:"S"`
}

// ItemIDList is a list of string scalars in the store's native attribute form.
type ItemIDList struct {
	L []StringValue `json:"L"`
}

// NewItemIDList converts plain ids into the native list form, preserving order.
func NewItemIDList(ids []string) ItemIDList {
	list := ItemIDList{L: make([]StringValue, 0, len(ids))}
	for _, id := range ids {
		list.L = append(list.L, StringValue{S: id})
	}
	return list
}

// Strings returns the ids as plain strings.
func (l ItemIDList) Strings() []string {
	ids := make([]string, 0, len(l.L))
	for _, v := range l.L {
		ids = append(ids, v.S)
	}
	return ids
}

// Record is the persisted shape of one execution attempt or page.
// Status is set only on the parent record of an execution.
type Record struct {
	ExecutionID         string         `json:"executionId"`
	ChildExecutionID    string         `json:"childExecutionId"`
	IterationNumber     int            `json:"iterationNumber"`
	TotalItemsProcessed int            `json:"totalItemsProcessed"`
	ItemsInCurrentPage  int            `json:"itemsInCurrentPage"`
	RequestURL          string         `json:"requestUrl"`
	ResponseStatus      *int           `json:"responseStatus,omitempty"`
	PaginationType      PaginationType `json:"paginationType"`
	Timestamp           string         `json:"timestamp"`
	IsLast              bool           `json:"isLast"`
	ItemIDs             ItemIDList     `json:"itemIds"`
	Status              Status         `json:"status,omitempty"`
}

// RecordKey implements store.Keyed.
func (r *Record) RecordKey() (string, string) {
	return r.ExecutionID, r.ChildExecutionID
}

// IsParent reports whether the record carries the execution's overall status.
func (r *Record) IsParent() bool {
	return r.Status != ""
}

// Data is the caller-supplied part of a record. Zero values fall back to the
// record defaults.
type Data struct {
	IterationNumber     int
	TotalItemsProcessed int
	ItemsInCurrentPage  int
	RequestURL          string
	ResponseStatus      *int
	PaginationType      PaginationType
	IsLast              bool
	ItemIDs             []string
	Status              Status
}
