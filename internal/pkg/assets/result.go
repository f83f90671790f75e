package assets

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of storing one slot.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result reports what happened to one slot during a save.
type Result struct {
	Slot   string            `json:"slot"`
	Status Status            `json:"status"`
	Keys   map[string]string `json:"keys,omitempty"`
	Err    error             `json:"-"`
}

// Message returns the error text, if any.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// MarshalJSON adds the error text as "error".
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain(r), r.Message()})
}

// StorageWriteError aborts a slot update.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// StorageDeleteError is logged and reported, never returned as a failure.
type StorageDeleteError struct {
	Key string
	Err error
}

func (e *StorageDeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Key, e.Err)
}

func (e *StorageDeleteError) Unwrap() error { return e.Err }

// DirectoryPruneError is logged and reported, never returned as a failure.
type DirectoryPruneError struct {
	Dir string
	Err error
}

func (e *DirectoryPruneError) Error() string {
	return fmt.Sprintf("prune %s: %v", e.Dir, e.Err)
}

func (e *DirectoryPruneError) Unwrap() error { return e.Err }

// CommitError means the record could not persist the new keys.
type CommitError struct {
	Slot string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit slot %s: %v", e.Slot, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// DeleteReport summarizes a best-effort cleanup.
type DeleteReport struct {
	Deleted []string `json:"deleted"`
	Missing []string `json:"missing,omitempty"`
	// Kept holds keys another record still references.
	Kept   []string `json:"kept,omitempty"`
	Pruned []string `json:"pruned,omitempty"`
	// Errors holds StorageDeleteError and DirectoryPruneError values.
	Errors []error `json:"-"`
}

// Merge appends other to r.
func (r *DeleteReport) Merge(other DeleteReport) {
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Missing = append(r.Missing, other.Missing...)
	r.Kept = append(r.Kept, other.Kept...)
	r.Pruned = append(r.Pruned, other.Pruned...)
	r.Errors = append(r.Errors, other.Errors...)
}

// MarshalJSON adds the swallowed errors as "errors".
func (r DeleteReport) MarshalJSON() ([]byte, error) {
	type plain DeleteReport
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return json.Marshal(struct {
		plain
		Errors []string `json:"errors,omitempty"`
	}{plain(r), msgs})
}

// Clean reports whether cleanup finished without any swallowed error.
func (r DeleteReport) Clean() bool {
	return len(r.Errors) == 0
}
