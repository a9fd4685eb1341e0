package motorino

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// findMemoryType returns the first memory type allowed by typeFilter
// whose property flags include every requested flag.
func findMemoryType(memProps vk.PhysicalDeviceMemoryProperties, typeFilter uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		if typeFilter&(1<<i) == 0 {
			continue
		}
		memProps.MemoryTypes[i].Deref()
		if memProps.MemoryTypes[i].PropertyFlags&required == required {
			return i, nil
		}
	}
	return 0, gpuErrorf("no memory type matches filter %#x with flags %#x", typeFilter, required)
}

func createBuffer(device *Device, size vk.DeviceSize, usage vk.BufferUsageFlags,
	properties vk.MemoryPropertyFlags, sharingMode vk.SharingMode, families []uint32) (vk.Buffer, vk.DeviceMemory, error) {

	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: sharingMode,
	}
	if sharingMode == vk.SharingModeConcurrent {
		createInfo.QueueFamilyIndexCount = uint32(len(families))
		createInfo.PQueueFamilyIndices = families
	}

	var buffer vk.Buffer
	ret := vk.CreateBuffer(device.Handle(), &createInfo, nil, &buffer)
	if isError(ret) {
		return vk.NullBuffer, vk.NullDeviceMemory, newError("create buffer", ret)
	}

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device.Handle(), buffer, &memReqs)
	memReqs.Deref()

	memType, err := findMemoryType(device.memProps, memReqs.MemoryTypeBits, properties)
	if err != nil {
		vk.DestroyBuffer(device.Handle(), buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device.Handle(), &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if isError(ret) {
		vk.DestroyBuffer(device.Handle(), buffer, nil)
		return vk.NullBuffer, vk.NullDeviceMemory, newError("allocate buffer memory", ret)
	}
	vk.BindBufferMemory(device.Handle(), buffer, memory, 0)
	return buffer, memory, nil
}

// beginOneTimeCommands allocates and starts a throwaway command buffer on
// the given pool.
func beginOneTimeCommands(device vk.Device, pool *CmdPool) (vk.CommandBuffer, error) {
	buffers, err := pool.AllocBuffers(device, 1)
	if err != nil {
		return nil, err
	}
	ret := vk.BeginCommandBuffer(buffers[0], &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if isError(ret) {
		pool.FreeBuffers(device, buffers)
		return nil, newError("begin one-time command buffer", ret)
	}
	return buffers[0], nil
}

// endOneTimeCommands submits the buffer and blocks until the queue has
// drained it, then frees the buffer.
func endOneTimeCommands(device vk.Device, pool *CmdPool, queue vk.Queue, cmd vk.CommandBuffer) error {
	defer pool.FreeBuffers(device, []vk.CommandBuffer{cmd})

	if ret := vk.EndCommandBuffer(cmd); isError(ret) {
		return newError("end one-time command buffer", ret)
	}
	ret := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, vk.NullFence)
	if isError(ret) {
		return newError("submit one-time command buffer", ret)
	}
	if ret := vk.QueueWaitIdle(queue); isError(ret) {
		return newError("wait for transfer queue", ret)
	}
	return nil
}

// SubmitGeometry uploads a packed blob of vertexCount vertices followed
// by indexCount uint16 indices, replacing any previously submitted mesh.
// The blob is staged through a host-visible buffer and copied to
// device-local memory on the transfer queue; the call returns once the
// copy has completed.
func (e *Engine) SubmitGeometry(blob []byte, vertexCount, indexCount uint32) error {
	size := geometryByteSize(vertexCount, indexCount)
	if vk.DeviceSize(len(blob)) != size {
		return fmt.Errorf("geometry blob is %d bytes, counts require %d", len(blob), size)
	}
	if size == 0 {
		return fmt.Errorf("geometry blob is empty")
	}

	staging, stagingMem, err := createBuffer(e.device, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
		vk.SharingModeExclusive, nil)
	if err != nil {
		return err
	}
	defer func() {
		vk.DestroyBuffer(e.device.Handle(), staging, nil)
		vk.FreeMemory(e.device.Handle(), stagingMem, nil)
	}()

	var pData unsafe.Pointer
	ret := vk.MapMemory(e.device.Handle(), stagingMem, 0, size, 0, &pData)
	if isError(ret) {
		return newError("map staging memory", ret)
	}
	vk.Memcopy(pData, blob)
	vk.UnmapMemory(e.device.Handle(), stagingMem)

	// The device-local buffer is written on the transfer queue and read
	// on the graphics queue, so it shares across both families when they
	// differ.
	indices := e.device.Indices()
	sharingMode := vk.SharingModeExclusive
	var families []uint32
	if indices.Graphics.value != indices.Transfer.value {
		sharingMode = vk.SharingModeConcurrent
		families = []uint32{indices.Graphics.value, indices.Transfer.value}
	}
	buffer, memory, err := createBuffer(e.device, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit|vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		sharingMode, families)
	if err != nil {
		return err
	}

	cmd, err := beginOneTimeCommands(e.device.Handle(), e.transferPool)
	if err == nil {
		vk.CmdCopyBuffer(cmd, staging, buffer, 1, []vk.BufferCopy{{Size: size}})
		err = endOneTimeCommands(e.device.Handle(), e.transferPool, e.device.TransferQueue(), cmd)
	}
	if err != nil {
		vk.DestroyBuffer(e.device.Handle(), buffer, nil)
		vk.FreeMemory(e.device.Handle(), memory, nil)
		return err
	}

	if e.geometry != nil {
		// Frames in flight may still reference the old buffer.
		e.device.WaitIdle()
		e.geometry.Destroy(e.device.Handle())
	}
	e.geometry = &Geometry{
		buffer:      buffer,
		memory:      memory,
		vertexCount: vertexCount,
		indexCount:  indexCount,
	}
	e.info.Printf("geometry uploaded: %d vertices, %d indices (%d bytes)", vertexCount, indexCount, size)
	return nil
}
