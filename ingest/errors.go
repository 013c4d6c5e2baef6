package ingest

import "errors"

var (
	// ErrManagerRequired is returned when a store manager is not provided.
	ErrManagerRequired = errors.New("store manager required")

	// ErrRecordSetRequired is returned when a record set is not provided.
	ErrRecordSetRequired = errors.New("record set required")
)
