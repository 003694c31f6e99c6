package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 8, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf), "capacity must not expose padding for size %d", size)
		assert.True(t, IsAligned(buf), "buffer of size %d should be aligned to %d", size, Alignment)
		for _, b := range buf {
			assert.Zero(t, b)
		}
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
	assert.True(t, IsAligned(nil))
}

func BenchmarkAllocAligned(b *testing.B) {
	for _, size := range []int{64, 256, 1024, 4096} {
		b.Run("", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}
