// Package graph abstracts the Bolt-speaking graph database behind a small
// client contract so repository logic can be tested without a server.
package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the repository needs from the graph
// database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a fully materialized query response.
type Result struct {
	Records []Record
}

// Single returns the only record of the result. Count-style queries are
// expected to produce exactly one row.
func (r Result) Single() (Record, bool) {
	if len(r.Records) != 1 {
		return nil, false
	}
	return r.Records[0], true
}

// Record maps returned column names to values.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
