package naming

import (
	"sync"

	"github.com/marmos91/nsfs/internal/errs"
)

// SelectionPolicy picks which registered storage server a new file's
// primary replica lands on. spec.md §9 flags the original's hard-coded
// "always server 0" choice as a known weakness and asks for a
// parameterized replacement.
type SelectionPolicy interface {
	Select(registry *Registry) (int, error)
}

// RoundRobin cycles through registered servers in registration order. The
// default placement policy.
type RoundRobin struct {
	mu   sync.Mutex
	next int
}

// NewRoundRobin creates a RoundRobin policy starting at index 0.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

func (p *RoundRobin) Select(registry *Registry) (int, error) {
	count := registry.Count()
	if count == 0 {
		return 0, errs.New(errs.State, "no storage servers registered")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	index := p.next % count
	p.next++
	return index, nil
}

// FixedPrimary always selects server 0, matching the original
// implementation's behavior. Kept for parity and test coverage of both
// policies, not as the default.
type FixedPrimary struct{}

func (FixedPrimary) Select(registry *Registry) (int, error) {
	if registry.Count() == 0 {
		return 0, errs.New(errs.State, "no storage servers registered")
	}
	return 0, nil
}
