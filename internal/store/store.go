// Package store persists finished games and the league state they update:
// playoff series, head-to-head results and All-Star bookkeeping. It also
// serves the roster and team lookups the narratives read.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// clone deep-copies a record through its JSON form, so callers never share
// memory with stored state.
func clone[T any](in *T) (*T, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", in, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", in, err)
	}
	return &out, nil
}
