package anim

import (
	"sync"

	"github.com/google/uuid"
)

// Progress tracks a running transcode for callers polling from another
// goroutine, typically a UI thread driving a progress bar. The codec itself
// stays single-threaded; only this tracker is synchronized.
type Progress struct {
	// ID identifies the job across concurrent transcodes.
	ID uuid.UUID

	mu      sync.Mutex
	total   uint32
	current uint32
	done    bool
	err     error
}

// NewProgress creates a tracker with a fresh job ID.
func NewProgress() *Progress {
	return &Progress{ID: uuid.New()}
}

// Snapshot returns the current state of the job.
func (p *Progress) Snapshot() (current, total uint32, done bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current, p.total, p.done, p.err
}

func (p *Progress) begin(total uint32) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.current = 0
	p.done = false
	p.err = nil
}

func (p *Progress) update(current uint32) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
}

func (p *Progress) finish(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	p.err = err
}
