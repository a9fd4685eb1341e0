package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// RenderPass is the single-subpass color pass every frame renders
// through. It outlives swapchain recreation since the surface format
// stays stable across resizes.
type RenderPass struct {
	handle vk.RenderPass
}

func (r *RenderPass) Handle() vk.RenderPass { return r.handle }

func newRenderPass(device vk.Device, format vk.Format) (*RenderPass, error) {
	attachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	colorRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorRef},
	}
	// The external dependency delays the clear until the presentation
	// engine is done reading the image.
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	var handle vk.RenderPass
	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{attachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}, nil, &handle)
	if isError(ret) {
		return nil, newError("create render pass", ret)
	}
	return &RenderPass{handle: handle}, nil
}

func (r *RenderPass) Destroy(device vk.Device) {
	if r == nil || r.handle == vk.NullRenderPass {
		return
	}
	vk.DestroyRenderPass(device, r.handle, nil)
	r.handle = vk.NullRenderPass
}
