package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// CmdPool is a command pool tied to one queue family. The engine keeps
// one on the graphics family for frame recording and one on the transfer
// family for uploads.
type CmdPool struct {
	pool   vk.CommandPool
	family uint32
}

func newCmdPool(device vk.Device, family uint32) (*CmdPool, error) {
	p := &CmdPool{family: family}
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: family,
	}, nil, &p.pool)
	if isError(ret) {
		return nil, newError("create command pool", ret)
	}
	return p, nil
}

func (p *CmdPool) Family() uint32 { return p.family }

// AllocBuffers carves count primary command buffers out of the pool.
func (p *CmdPool) AllocBuffers(device vk.Device, count int) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, buffers)
	if isError(ret) {
		return nil, newError("allocate command buffers", ret)
	}
	return buffers, nil
}

func (p *CmdPool) FreeBuffers(device vk.Device, buffers []vk.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}
	vk.FreeCommandBuffers(device, p.pool, uint32(len(buffers)), buffers)
}

func (p *CmdPool) Destroy(device vk.Device) {
	if p == nil || p.pool == vk.NullCommandPool {
		return
	}
	vk.DestroyCommandPool(device, p.pool, nil)
	p.pool = vk.NullCommandPool
}
