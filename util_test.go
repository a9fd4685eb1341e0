package motorino

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeStringAppendsTerminator(t *testing.T) {
	assert.Equal(t, "main\x00", safeString("main"))
}

func TestSafeStringIdempotent(t *testing.T) {
	assert.Equal(t, "main\x00", safeString("main\x00"))
}

func TestSafeStrings(t *testing.T) {
	out := safeStrings([]string{"a", "b\x00"})
	assert.Equal(t, []string{"a\x00", "b\x00"}, out)
}

func TestSliceUint32Length(t *testing.T) {
	assert.Len(t, sliceUint32(make([]byte, 16)), 4)
}

func TestSliceUint32Empty(t *testing.T) {
	assert.Nil(t, sliceUint32(nil))
}
