package motorino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func family(flags vk.QueueFlagBits) vk.QueueFamilyProperties {
	return vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags)}
}

func presentOn(families ...uint32) func(uint32) bool {
	return func(candidate uint32) bool {
		for _, f := range families {
			if f == candidate {
				return true
			}
		}
		return false
	}
}

func TestFindQueueIndicesDedicatedTransfer(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit | vk.QueueTransferBit),
		family(vk.QueueTransferBit),
	}
	indices := findQueueIndices(families, presentOn(0))

	assert.True(t, indices.IsComplete())
	assert.Equal(t, uint32(0), indices.Graphics.value)
	assert.Equal(t, uint32(0), indices.Present.value)
	assert.Equal(t, uint32(1), indices.Transfer.value)
}

func TestFindQueueIndicesTransferFallsBackToGraphics(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit | vk.QueueTransferBit),
	}
	indices := findQueueIndices(families, presentOn(0))

	assert.True(t, indices.IsComplete())
	assert.Equal(t, indices.Graphics.value, indices.Transfer.value)
}

func TestFindQueueIndicesMissingPresent(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit | vk.QueueTransferBit),
		family(vk.QueueTransferBit),
	}
	indices := findQueueIndices(families, presentOn())

	assert.False(t, indices.IsComplete())
	assert.False(t, indices.Present.found)
}

func TestFindQueueIndicesMissingGraphics(t *testing.T) {
	families := []vk.QueueFamilyProperties{
		family(vk.QueueTransferBit),
		family(vk.QueueComputeBit),
	}
	indices := findQueueIndices(families, presentOn(0, 1))

	assert.False(t, indices.IsComplete())
	assert.False(t, indices.Graphics.found)
	assert.False(t, indices.Transfer.found)
}

func TestFindQueueIndicesEmptyFamilyList(t *testing.T) {
	indices := findQueueIndices(nil, presentOn(0))
	assert.False(t, indices.IsComplete())
}

func TestDistinctDeduplicates(t *testing.T) {
	var indices QueueIndices
	indices.Graphics.set(0)
	indices.Present.set(0)
	indices.Transfer.set(1)
	assert.Equal(t, []uint32{0, 1}, indices.Distinct())

	indices.Transfer.set(0)
	assert.Equal(t, []uint32{0}, indices.Distinct())
}

func TestDistinctSkipsUnset(t *testing.T) {
	var indices QueueIndices
	indices.Graphics.set(2)
	assert.Equal(t, []uint32{2}, indices.Distinct())
}
