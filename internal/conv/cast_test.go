package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint64(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint64(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := IntToUint64(math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxInt), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint64(-1)
		assert.Error(t, err)
	})
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(42)
	assert.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.Error(t, err)
}

func TestIntToInt32(t *testing.T) {
	got, err := IntToInt32(-7)
	assert.NoError(t, err)
	assert.Equal(t, int32(-7), got)

	_, err = IntToInt32(math.MaxInt32 + 1)
	assert.Error(t, err)

	_, err = IntToInt32(math.MinInt32 - 1)
	assert.Error(t, err)
}

func TestMul(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		want    int
		wantErr bool
	}{
		{"zero", 0, math.MaxInt, 0, false},
		{"small", 16, 1000, 16000, false},
		{"overflow", math.MaxInt / 2, 3, 0, true},
		{"negative", -1, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulInt(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := MulUint64(1<<32, 1<<31)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1<<63), got)

	_, err = MulUint64(1<<32, 1<<32)
	assert.Error(t, err)

	assert.Equal(t, int64(9), IntToInt64(9))
}
