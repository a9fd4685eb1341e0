package motorino

import (
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// surfaceSupport is a snapshot of what the surface can do on the chosen
// physical device, with nested extents already dereferenced.
type surfaceSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
}

func querySurfaceSupport(gpu vk.PhysicalDevice, surface vk.Surface) (surfaceSupport, error) {
	var support surfaceSupport
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &support.capabilities)
	if isError(ret) {
		return support, newError("query surface capabilities", ret)
	}
	support.capabilities.Deref()
	support.capabilities.CurrentExtent.Deref()
	support.capabilities.MinImageExtent.Deref()
	support.capabilities.MaxImageExtent.Deref()

	var count uint32
	ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	if isError(ret) {
		return support, newError("query surface formats", ret)
	}
	if count == 0 {
		return support, gpuErrorf("surface reports no formats")
	}
	support.formats = make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, support.formats)
	if isError(ret) {
		return support, newError("query surface formats", ret)
	}
	for i := range support.formats {
		support.formats[i].Deref()
	}
	return support, nil
}

// chooseSurfaceFormat prefers sRGB BGRA8 and otherwise takes whatever the
// surface lists first.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// chooseImageCount asks for one image above the minimum so acquisition
// never stalls on the driver, clamped to the surface maximum when one is
// declared (zero means unbounded).
func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// chooseExtent resolves the swapchain extent: the surface's current
// extent when the platform fixes it, otherwise the framebuffer size
// clamped to the supported range.
func chooseExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	clamp := func(v, lo, hi uint32) uint32 {
		if v < lo {
			return lo
		}
		if hi > 0 && v > hi {
			return hi
		}
		return v
	}
	return vk.Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseSharing selects concurrent sharing when the graphics, present and
// transfer roles live in different families, exclusive when they
// coincide.
func chooseSharing(indices QueueIndices) (vk.SharingMode, []uint32) {
	families := indices.Distinct()
	if len(families) > 1 {
		return vk.SharingModeConcurrent, families
	}
	return vk.SharingModeExclusive, nil
}

func choosePreTransform(caps vk.SurfaceCapabilities) vk.SurfaceTransformFlagBits {
	if caps.SupportedTransforms&vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit) != 0 {
		return vk.SurfaceTransformIdentityBit
	}
	return caps.CurrentTransform
}

func chooseCompositeAlpha(caps vk.SurfaceCapabilities) vk.CompositeAlphaFlagBits {
	modes := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, mode := range modes {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(mode) != 0 {
			return mode
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// Swapchain owns the presentable images together with their views and
// framebuffers. It is rebuilt wholesale on resize while the render pass
// and pipeline stay put.
type Swapchain struct {
	handle       vk.Swapchain
	images       []vk.Image
	views        []vk.ImageView
	framebuffers []vk.Framebuffer
	format       vk.SurfaceFormat
	extent       vk.Extent2D
}

func (s *Swapchain) Handle() vk.Swapchain { return s.handle }
func (s *Swapchain) Extent() vk.Extent2D  { return s.extent }
func (s *Swapchain) ImageCount() int      { return len(s.images) }
func (s *Swapchain) Format() vk.Format    { return s.format.Format }

func newSwapchain(device *Device, surface vk.Surface, renderPass vk.RenderPass,
	format vk.SurfaceFormat, width, height uint32, info *log.Logger) (*Swapchain, error) {

	support, err := querySurfaceSupport(device.GPU(), surface)
	if err != nil {
		return nil, err
	}
	caps := support.capabilities
	extent := chooseExtent(caps, width, height)
	sharingMode, families := chooseSharing(device.Indices())

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    chooseImageCount(caps),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: sharingMode,
		PreTransform:     choosePreTransform(caps),
		CompositeAlpha:   chooseCompositeAlpha(caps),
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if sharingMode == vk.SharingModeConcurrent {
		createInfo.QueueFamilyIndexCount = uint32(len(families))
		createInfo.PQueueFamilyIndices = families
	}

	s := &Swapchain{format: format, extent: extent}
	ret := vk.CreateSwapchain(device.Handle(), &createInfo, nil, &s.handle)
	if isError(ret) {
		return nil, newError("create swapchain", ret)
	}

	var imageCount uint32
	ret = vk.GetSwapchainImages(device.Handle(), s.handle, &imageCount, nil)
	if isError(ret) {
		s.Destroy(device.Handle())
		return nil, newError("get swapchain images", ret)
	}
	s.images = make([]vk.Image, imageCount)
	ret = vk.GetSwapchainImages(device.Handle(), s.handle, &imageCount, s.images)
	if isError(ret) {
		s.Destroy(device.Handle())
		return nil, newError("get swapchain images", ret)
	}

	if err := s.createViews(device.Handle()); err != nil {
		s.Destroy(device.Handle())
		return nil, err
	}
	if err := s.createFramebuffers(device.Handle(), renderPass); err != nil {
		s.Destroy(device.Handle())
		return nil, err
	}
	info.Printf("swapchain ready: %d images at %dx%d", imageCount, extent.Width, extent.Height)
	return s, nil
}

func (s *Swapchain) createViews(device vk.Device) error {
	s.views = make([]vk.ImageView, len(s.images))
	for i, image := range s.images {
		ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   s.format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &s.views[i])
		if isError(ret) {
			return newError("create swapchain image view", ret)
		}
	}
	return nil
}

func (s *Swapchain) createFramebuffers(device vk.Device, renderPass vk.RenderPass) error {
	s.framebuffers = make([]vk.Framebuffer, len(s.views))
	for i, view := range s.views {
		ret := vk.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{view},
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}, nil, &s.framebuffers[i])
		if isError(ret) {
			return newError("create framebuffer", ret)
		}
	}
	return nil
}

// Destroy tears the swapchain down framebuffers first, then views, then
// the swapchain itself. Safe on a partially built or already destroyed
// swapchain.
func (s *Swapchain) Destroy(device vk.Device) {
	if s == nil {
		return
	}
	for _, fb := range s.framebuffers {
		if fb != vk.NullFramebuffer {
			vk.DestroyFramebuffer(device, fb, nil)
		}
	}
	s.framebuffers = nil
	for _, view := range s.views {
		if view != vk.NullImageView {
			vk.DestroyImageView(device, view, nil)
		}
	}
	s.views = nil
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
	s.images = nil
}

// waitNonZeroExtent blocks while the framebuffer has no area, pumping
// window events until a resize reports usable dimensions.
func waitNonZeroExtent(win Window) (uint32, uint32) {
	for {
		w, h := win.FramebufferSize()
		if w > 0 && h > 0 {
			return uint32(w), uint32(h)
		}
		win.WaitEvents()
	}
}
