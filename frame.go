package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// frameSlot is one frame-in-flight: a command buffer plus the primitives
// that order acquisition, rendering and presentation for that frame.
type frameSlot struct {
	command        vk.CommandBuffer
	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
	inFlight       vk.Fence
}

// newFrameSlots builds count slots with command buffers from the
// graphics pool. Fences start signaled so the first wait on each slot
// falls through.
func newFrameSlots(device vk.Device, pool *CmdPool, count int) ([]frameSlot, error) {
	commands, err := pool.AllocBuffers(device, count)
	if err != nil {
		return nil, err
	}
	slots := make([]frameSlot, count)
	for i := range slots {
		slots[i].command = commands[i]

		semaphoreInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		ret := vk.CreateSemaphore(device, &semaphoreInfo, nil, &slots[i].imageAvailable)
		if isError(ret) {
			destroyFrameSlots(device, pool, slots)
			return nil, newError("create image-available semaphore", ret)
		}
		ret = vk.CreateSemaphore(device, &semaphoreInfo, nil, &slots[i].renderFinished)
		if isError(ret) {
			destroyFrameSlots(device, pool, slots)
			return nil, newError("create render-finished semaphore", ret)
		}
		ret = vk.CreateFence(device, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &slots[i].inFlight)
		if isError(ret) {
			destroyFrameSlots(device, pool, slots)
			return nil, newError("create in-flight fence", ret)
		}
	}
	return slots, nil
}

func destroyFrameSlots(device vk.Device, pool *CmdPool, slots []frameSlot) {
	var commands []vk.CommandBuffer
	for i := range slots {
		if slots[i].imageAvailable != vk.NullSemaphore {
			vk.DestroySemaphore(device, slots[i].imageAvailable, nil)
			slots[i].imageAvailable = vk.NullSemaphore
		}
		if slots[i].renderFinished != vk.NullSemaphore {
			vk.DestroySemaphore(device, slots[i].renderFinished, nil)
			slots[i].renderFinished = vk.NullSemaphore
		}
		if slots[i].inFlight != vk.NullFence {
			vk.DestroyFence(device, slots[i].inFlight, nil)
			slots[i].inFlight = vk.NullFence
		}
		if slots[i].command != nil {
			commands = append(commands, slots[i].command)
			slots[i].command = nil
		}
	}
	if pool != nil {
		pool.FreeBuffers(device, commands)
	}
}

// advanceFrame moves to the next slot, wrapping round-robin.
func (e *Engine) advanceFrame() {
	e.frameIndex = (e.frameIndex + 1) % len(e.frames)
}

// DrawFrame renders and presents one frame through the current slot. A
// stale swapchain is rebuilt and the frame skipped; other failures are
// returned wrapped in ErrGpuOperation.
func (e *Engine) DrawFrame() error {
	device := e.device.Handle()
	slot := &e.frames[e.frameIndex]
	fences := []vk.Fence{slot.inFlight}

	vk.WaitForFences(device, 1, fences, vk.True, vk.MaxUint64)

	var imageIndex uint32
	ret := vk.AcquireNextImage(device, e.swapchain.Handle(), vk.MaxUint64,
		slot.imageAvailable, vk.NullFence, &imageIndex)
	switch {
	case ret == vk.ErrorOutOfDate:
		return e.RecreateSwapchain()
	case isError(ret) && ret != vk.Suboptimal:
		return newError("acquire swapchain image", ret)
	}

	vk.ResetCommandBuffer(slot.command, 0)
	if err := e.recordCommands(slot.command, imageIndex); err != nil {
		// The fence stays signaled so this slot can retry next tick.
		return err
	}

	vk.ResetFences(device, 1, fences)
	ret = vk.QueueSubmit(e.device.GraphicsQueue(), 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{slot.imageAvailable},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.command},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.renderFinished},
	}}, slot.inFlight)
	if isError(ret) {
		return newError("submit frame", ret)
	}

	ret = vk.QueuePresent(e.device.PresentQueue(), &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{e.swapchain.Handle()},
		PImageIndices:      []uint32{imageIndex},
	})
	switch {
	case ret == vk.ErrorOutOfDate || ret == vk.Suboptimal || e.consumeResize():
		if err := e.RecreateSwapchain(); err != nil {
			return err
		}
	case isError(ret):
		return newError("present frame", ret)
	}

	e.advanceFrame()
	return nil
}
