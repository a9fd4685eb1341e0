package motorino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestVertexStride(t *testing.T) {
	// 2 position floats + 3 color floats, tightly packed.
	assert.Equal(t, uint32(20), VertexStride)
	assert.Equal(t, uint32(2), IndexStride)
}

func TestVertexBindingDescription(t *testing.T) {
	binding := vertexBindingDescription()
	assert.Equal(t, uint32(0), binding.Binding)
	assert.Equal(t, VertexStride, binding.Stride)
	assert.Equal(t, vk.VertexInputRateVertex, binding.InputRate)
}

func TestVertexAttributeDescriptions(t *testing.T) {
	attrs := vertexAttributeDescriptions()
	assert.Len(t, attrs, 2)

	assert.Equal(t, uint32(0), attrs[0].Location)
	assert.Equal(t, vk.FormatR32g32Sfloat, attrs[0].Format)
	assert.Equal(t, uint32(0), attrs[0].Offset)

	assert.Equal(t, uint32(1), attrs[1].Location)
	assert.Equal(t, vk.FormatR32g32b32Sfloat, attrs[1].Format)
	assert.Equal(t, uint32(8), attrs[1].Offset)
}

func TestIndexByteOffset(t *testing.T) {
	g := &Geometry{vertexCount: 4, indexCount: 6}
	assert.Equal(t, vk.DeviceSize(4*VertexStride), g.IndexByteOffset())
	assert.Equal(t, uint32(4), g.VertexCount())
	assert.Equal(t, uint32(6), g.IndexCount())
}
