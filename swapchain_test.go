package motorino

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseImageCountOneAboveMinimum(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}
	assert.Equal(t, uint32(3), chooseImageCount(caps))
}

func TestChooseImageCountClampedToMaximum(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 3, MaxImageCount: 3}
	assert.Equal(t, uint32(3), chooseImageCount(caps))
}

func TestChooseImageCountMaximumNotHit(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}
	assert.Equal(t, uint32(3), chooseImageCount(caps))
}

func TestChooseSurfaceFormatPrefersSrgbBgra(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	chosen := chooseSurfaceFormat(formats)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, chosen.Format)
}

func TestChooseSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	chosen := chooseSurfaceFormat(formats)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, chosen.Format)
}

func TestChooseExtentFixedByPlatform(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent: vk.Extent2D{Width: 640, Height: 480},
	}
	extent := chooseExtent(caps, 1920, 1080)
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, extent)
}

func TestChooseExtentClampedToSupportedRange(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 200, Height: 200},
		MaxImageExtent: vk.Extent2D{Width: 1000, Height: 1000},
	}
	extent := chooseExtent(caps, 1600, 100)
	assert.Equal(t, vk.Extent2D{Width: 1000, Height: 200}, extent)
}

func TestChooseSharingExclusiveWhenFamiliesCoincide(t *testing.T) {
	var indices QueueIndices
	indices.Graphics.set(0)
	indices.Present.set(0)
	indices.Transfer.set(0)

	mode, families := chooseSharing(indices)
	assert.Equal(t, vk.SharingModeExclusive, mode)
	assert.Empty(t, families)
}

func TestChooseSharingConcurrentAcrossFamilies(t *testing.T) {
	var indices QueueIndices
	indices.Graphics.set(0)
	indices.Present.set(0)
	indices.Transfer.set(1)

	mode, families := chooseSharing(indices)
	assert.Equal(t, vk.SharingModeConcurrent, mode)
	assert.Equal(t, []uint32{0, 1}, families)
}

func TestChoosePreTransformPrefersIdentity(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedTransforms: vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit | vk.SurfaceTransformRotate90Bit),
		CurrentTransform:    vk.SurfaceTransformRotate90Bit,
	}
	assert.Equal(t, vk.SurfaceTransformIdentityBit, choosePreTransform(caps))
}

func TestChoosePreTransformFallsBackToCurrent(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedTransforms: vk.SurfaceTransformFlags(vk.SurfaceTransformRotate90Bit),
		CurrentTransform:    vk.SurfaceTransformRotate90Bit,
	}
	assert.Equal(t, vk.SurfaceTransformRotate90Bit, choosePreTransform(caps))
}

func TestChooseCompositeAlphaPrefersOpaque(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaInheritBit),
	}
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, chooseCompositeAlpha(caps))
}

func TestChooseCompositeAlphaTakesWhatIsThere(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit),
	}
	assert.Equal(t, vk.CompositeAlphaInheritBit, chooseCompositeAlpha(caps))
}

func TestWaitNonZeroExtentBlocksUntilUsableSize(t *testing.T) {
	win := &stubWindow{sizes: [][2]int{{0, 0}, {0, 0}, {640, 480}}}

	width, height := waitNonZeroExtent(win)
	assert.Equal(t, uint32(640), width)
	assert.Equal(t, uint32(480), height)
	assert.Equal(t, 2, win.waits)
}

func TestWaitNonZeroExtentReturnsImmediately(t *testing.T) {
	win := &stubWindow{sizes: [][2]int{{800, 600}}}

	width, height := waitNonZeroExtent(win)
	assert.Equal(t, uint32(800), width)
	assert.Equal(t, uint32(600), height)
	assert.Zero(t, win.waits)
}
