package intern

import "sync"

/*
Pool is a canonicalizing cache for decoded strings. Metadata footers repeat
the same path components and key names many times; routing string decodes
through a pool means equal values share one backing instance for as long as
the pool lives.

Pool scope is the caller's decision. The footer entry points create one pool
per decode call, bounding retention to the call. A process-wide pool trades
memory growth for cross-decode sharing; the mutex makes that safe.
*/

////////////////////////////////////////////////////////////////////////////////

// Pool canonicalizes value-equal strings. The zero value is not usable; use
// NewPool.
type Pool struct {
	mu      sync.Mutex
	strings map[string]string
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{strings: map[string]string{}}
}

// Intern returns the canonical instance of s, storing s as the canonical
// instance if no equal string has been seen.
func (p *Pool) Intern(s string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if canonical, ok := p.strings[s]; ok {
		return canonical
	}
	p.strings[s] = s
	return s
}

// Len returns the number of distinct strings in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strings)
}
