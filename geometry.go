package motorino

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// Vertex is the fixed layout the pipeline consumes: 2D position followed
// by an RGB color, tightly packed.
type Vertex struct {
	Pos   lin.Vec2
	Color lin.Vec3
}

const (
	// VertexStride is the byte size of one Vertex in a buffer.
	VertexStride = uint32(unsafe.Sizeof(Vertex{}))
	// IndexStride is the byte size of one index; indices are uint16.
	IndexStride = uint32(unsafe.Sizeof(uint16(0)))
)

func vertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}
}

func vertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Pos)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
	}
}

// geometryByteSize is the packed size of a blob holding vertexCount
// vertices followed by indexCount indices.
func geometryByteSize(vertexCount, indexCount uint32) vk.DeviceSize {
	return vk.DeviceSize(vertexCount)*vk.DeviceSize(VertexStride) +
		vk.DeviceSize(indexCount)*vk.DeviceSize(IndexStride)
}

// Geometry is the one live mesh: a single device-local buffer holding the
// vertex region followed by the index region.
type Geometry struct {
	buffer      vk.Buffer
	memory      vk.DeviceMemory
	vertexCount uint32
	indexCount  uint32
}

func (g *Geometry) VertexCount() uint32 { return g.vertexCount }
func (g *Geometry) IndexCount() uint32  { return g.indexCount }

// IndexByteOffset is where the index region starts inside the buffer.
func (g *Geometry) IndexByteOffset() vk.DeviceSize {
	return vk.DeviceSize(g.vertexCount) * vk.DeviceSize(VertexStride)
}

func (g *Geometry) Destroy(device vk.Device) {
	if g == nil {
		return
	}
	if g.buffer != vk.NullBuffer {
		vk.DestroyBuffer(device, g.buffer, nil)
		g.buffer = vk.NullBuffer
	}
	if g.memory != vk.NullDeviceMemory {
		vk.FreeMemory(device, g.memory, nil)
		g.memory = vk.NullDeviceMemory
	}
}
