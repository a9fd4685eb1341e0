package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// recordCommands fills cmd with the frame's render pass: clear to opaque
// black, bind the pipeline and geometry, set the dynamic viewport and
// scissor to the full extent and issue one indexed draw. The buffer is
// left terminated even when no geometry has been submitted yet.
func (e *Engine) recordCommands(cmd vk.CommandBuffer, imageIndex uint32) error {
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	if isError(ret) {
		return newError("begin frame command buffer", ret)
	}

	extent := e.swapchain.Extent()
	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.0, 0.0, 0.0, 1.0}),
	}
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  e.renderPass.Handle(),
		Framebuffer: e.swapchain.framebuffers[imageIndex],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}})

	if e.pipeline != nil && e.geometry != nil {
		vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, e.pipeline.Handle())
		vk.CmdBindVertexBuffers(cmd, 0, 1,
			[]vk.Buffer{e.geometry.buffer}, []vk.DeviceSize{0})
		vk.CmdBindIndexBuffer(cmd, e.geometry.buffer,
			e.geometry.IndexByteOffset(), vk.IndexTypeUint16)
		vk.CmdDrawIndexed(cmd, e.geometry.IndexCount(), 1, 0, 0, 0)
	}

	vk.CmdEndRenderPass(cmd)
	if ret := vk.EndCommandBuffer(cmd); isError(ret) {
		return newError("end frame command buffer", ret)
	}
	return nil
}
