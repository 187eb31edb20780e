package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory Client used to test repository logic without
// a running database. It records every executed statement and replays
// queued results in FIFO order.
type MemoryClient struct {
	mu           sync.Mutex
	writes       []ExecutedQuery
	reads        []ExecutedQuery
	queuedReads  []Result
	queuedWrites []Result
	failure      error
	connectivity error
}

// ExecutedQuery captures one cypher statement with its parameters.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient returns an empty recording client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// FailWith makes every subsequent execute call return err.
func (m *MemoryClient) FailWith(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure = err
	return m
}

// FailConnectivity makes VerifyConnectivity return err.
func (m *MemoryClient) FailConnectivity(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// QueueReadResult appends a canned result for a future ExecuteRead.
func (m *MemoryClient) QueueReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queuedReads = append(m.queuedReads, res)
}

// QueueWriteResult appends a canned result for a future ExecuteWrite.
func (m *MemoryClient) QueueWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queuedWrites = append(m.queuedWrites, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failure != nil {
		return Result{}, m.failure
	}
	m.writes = append(m.writes, ExecutedQuery{Query: cypher, Params: cloneParams(params)})

	if len(m.queuedWrites) == 0 {
		return Result{}, nil
	}
	res := m.queuedWrites[0]
	m.queuedWrites = m.queuedWrites[1:]
	return res, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failure != nil {
		return Result{}, m.failure
	}
	m.reads = append(m.reads, ExecutedQuery{Query: cypher, Params: cloneParams(params)})

	if len(m.queuedReads) == 0 {
		return Result{}, nil
	}
	res := m.queuedReads[0]
	m.queuedReads = m.queuedReads[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns a snapshot of executed write statements.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writes...)
}

// ReadCalls returns a snapshot of executed read statements.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.reads...)
}

func cloneParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
