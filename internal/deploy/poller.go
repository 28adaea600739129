package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modx/internal/tooling"
)

// Async request states. Queued is the only non-terminal one.
const (
	StateQueued      = "Queued"
	StateCompleted   = "Completed"
	StateFailed      = "Failed"
	StateError       = "Error"
	StateInvalidated = "Invalidated"
	StateAborted     = "Aborted"
)

// IsQueued compares case-insensitively; the server has been seen to vary
// the casing.
func IsQueued(state string) bool {
	return strings.EqualFold(state, StateQueued)
}

const asyncRequestQuery = "SELECT Id, State, ErrorMsg, DeployDetails FROM ContainerAsyncRequest WHERE Id = "

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poller submits a container for compilation and waits for the job to
// leave the Queued state.
type Poller struct {
	client   tooling.Client
	interval time.Duration
	maxPolls int
	sleep    SleepFunc
}

func NewPoller(client tooling.Client, opts Options) *Poller {
	opts = opts.withDefaults()
	return &Poller{
		client:   client,
		interval: opts.PollInterval,
		maxPolls: opts.MaxPolls,
		sleep:    opts.Sleep,
	}
}

// Submit creates the ContainerAsyncRequest. checkOnly=true validates
// without saving.
func (p *Poller) Submit(ctx context.Context, containerID string, checkOnly bool) (tooling.SaveResult, error) {
	res, err := p.client.Create(ctx, "ContainerAsyncRequest", map[string]any{
		"MetadataContainerId": containerID,
		"IsCheckOnly":         checkOnly,
	})
	if err != nil {
		return tooling.SaveResult{}, fmt.Errorf("submitting async request: %w", err)
	}
	return res, nil
}

// Wait queries the request until its state is terminal and returns that
// record untouched. Classification is the caller's job.
func (p *Poller) Wait(ctx context.Context, requestID string) (*tooling.AsyncRequest, error) {
	soql := asyncRequestQuery + tooling.Quote(requestID)
	for polls := 1; ; polls++ {
		rec, err := p.fetch(ctx, soql)
		if err != nil {
			return nil, err
		}
		if !IsQueued(rec.State) {
			DeployLogs.Debug("async request %s reached %s after %d polls", requestID, rec.State, polls)
			return rec, nil
		}
		if p.maxPolls > 0 && polls >= p.maxPolls {
			return rec, fmt.Errorf("%w: request %s after %d polls", ErrPollLimit, requestID, polls)
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, fmt.Errorf("waiting for async request %s: %w", requestID, err)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, soql string) (*tooling.AsyncRequest, error) {
	var out tooling.QueryResult[tooling.AsyncRequest]
	if err := p.client.ToolingQuery(ctx, soql, &out); err != nil {
		return nil, fmt.Errorf("polling async request: %w", err)
	}
	if len(out.Records) == 0 {
		return nil, ErrNoAsyncRecord
	}
	return &out.Records[0], nil
}
