package intern_test

import (
	"context"
	"strings"
	"testing"
	"unsafe"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbenoit/sift/intern"
)

func TestPool(t *testing.T) {
	t.Run("equal strings share one canonical instance", func(t *testing.T) {
		pool := intern.NewPool()
		a := strings.Clone("row_group")
		b := strings.Clone("row_group")
		first := pool.Intern(a)
		second := pool.Intern(b)
		assert.Equal(t, 1, pool.Len())
		assert.Equal(t, unsafe.StringData(first), unsafe.StringData(second))
	})

	t.Run("distinct strings stay distinct", func(t *testing.T) {
		pool := intern.NewPool()
		pool.Intern("a")
		pool.Intern("b")
		assert.Equal(t, 2, pool.Len())
	})
}

func TestProtocol(t *testing.T) {
	ctx := context.Background()

	t.Run("string reads intern through the pool", func(t *testing.T) {
		buf := thrift.NewTMemoryBuffer()
		p := thrift.NewTCompactProtocolConf(buf, nil)
		require.NoError(t, p.WriteString(ctx, "created_by"))
		require.NoError(t, p.WriteString(ctx, "created_by"))
		require.NoError(t, p.WriteString(ctx, "version"))

		pool := intern.NewPool()
		prot := intern.NewProtocol(p, pool)
		first, err := prot.ReadString(ctx)
		require.NoError(t, err)
		second, err := prot.ReadString(ctx)
		require.NoError(t, err)
		third, err := prot.ReadString(ctx)
		require.NoError(t, err)

		assert.Equal(t, "created_by", first)
		assert.Equal(t, unsafe.StringData(first), unsafe.StringData(second))
		assert.Equal(t, "version", third)
		assert.Equal(t, 2, pool.Len())
	})

	t.Run("non-string reads pass through untouched", func(t *testing.T) {
		buf := thrift.NewTMemoryBuffer()
		p := thrift.NewTCompactProtocolConf(buf, nil)
		require.NoError(t, p.WriteI64(ctx, 12345))

		prot := intern.NewProtocol(p, intern.NewPool())
		v, err := prot.ReadI64(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(12345), v)
	})
}
