package game

import (
	"io"
	"log/slog"
	"sync"

	"github.com/scythe504/snake-arena/internal"
)

// fakePeer records everything sent to it.
type fakePeer struct {
	id   string
	mu   sync.Mutex
	msgs []internal.Message[any]
	full bool
}

func newFakePeer(id string) *fakePeer {
	return &fakePeer{id: id}
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(msg internal.Message[any]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return false
	}
	p.msgs = append(p.msgs, msg)
	return true
}

func (p *fakePeer) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		types = append(types, m.Type)
	}
	return types
}

func (p *fakePeer) count(msgType string) int {
	n := 0
	for _, t := range p.types() {
		if t == msgType {
			n++
		}
	}
	return n
}

func (p *fakePeer) last(msgType string) (internal.Message[any], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.msgs) - 1; i >= 0; i-- {
		if p.msgs[i].Type == msgType {
			return p.msgs[i], true
		}
	}
	return internal.Message[any]{}, false
}

func (p *fakePeer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
