package intern

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

/*
Protocol wraps a thrift protocol so that string decodes pass through a pool.
Everything else is forwarded untouched, so it drops in anywhere a
thrift.TProtocol is expected and the rest of the decode path stays unaware of
interning.
*/

////////////////////////////////////////////////////////////////////////////////

// Protocol is a thrift protocol whose string reads return pooled instances.
type Protocol struct {
	thrift.TProtocol
	pool *Pool
}

// NewProtocol wraps prot so string reads intern through pool.
func NewProtocol(prot thrift.TProtocol, pool *Pool) *Protocol {
	return &Protocol{TProtocol: prot, pool: pool}
}

// ReadString reads a string from the underlying protocol and returns its
// canonical instance.
func (p *Protocol) ReadString(ctx context.Context) (string, error) {
	s, err := p.TProtocol.ReadString(ctx)
	if err != nil {
		return "", err
	}
	return p.pool.Intern(s), nil
}
