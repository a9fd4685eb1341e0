// Package motorino is a small real-time renderer on Vulkan: one window,
// one graphics pipeline, one mesh, presented through a swapchain with a
// fixed number of frames in flight.
package motorino

import (
	"fmt"
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// Engine drives the whole rendering stack. All methods must be called
// from the thread that owns the window; nothing here is safe for
// concurrent use.
type Engine struct {
	config Config
	window Window

	info *log.Logger
	warn *log.Logger
	err  *log.Logger

	instance   vk.Instance
	surface    vk.Surface
	device     *Device
	renderPass *RenderPass
	swapchain  *Swapchain
	pipeline   *Pipeline
	geometry   *Geometry

	graphicsPool *CmdPool
	transferPool *CmdPool

	frames     []frameSlot
	frameIndex int

	extent  vk.Extent2D
	resized bool
}

// New wires an engine to its window. No GPU work happens until
// Initialize.
func New(config Config, window Window) *Engine {
	config.Defaults()
	e := &Engine{
		config:  config,
		window:  window,
		info:    config.Info,
		warn:    config.Warn,
		err:     config.Err,
		surface: vk.NullSurface,
		extent:  vk.Extent2D{Width: config.Width, Height: config.Height},
	}
	window.SetResizeHandler(e)
	return e
}

// SetExtent records the framebuffer size reported by the window. The
// next DrawFrame rebuilds the swapchain to match.
func (e *Engine) SetExtent(width, height uint32) {
	e.extent = vk.Extent2D{Width: width, Height: height}
	e.resized = true
}

// consumeResize reports whether a resize arrived since the last check
// and clears the flag.
func (e *Engine) consumeResize() bool {
	if !e.resized {
		return false
	}
	e.resized = false
	return true
}

// Geometry returns the currently submitted mesh, or nil before the first
// SubmitGeometry.
func (e *Engine) Geometry() *Geometry { return e.geometry }

// Initialize brings up the Vulkan stack: instance, surface, device and
// queues, render pass, swapchain, command pools and frame slots. The
// engine can render an empty frame once this returns.
func (e *Engine) Initialize() error {
	vk.SetGetInstanceProcAddr(e.window.InstanceProcAddr())
	if err := vk.Init(); err != nil {
		return gpuErrorf("initialize vulkan loader: %v", err)
	}

	if err := e.createInstance(); err != nil {
		return err
	}

	surface, err := e.window.CreateSurface(e.instance)
	if err != nil {
		return err
	}
	e.surface = surface

	layers := e.enabledLayers()
	e.device, err = newDevice(e.instance, e.surface, layers, e.config.DeviceExtensions, e.info, e.warn)
	if err != nil {
		return err
	}

	support, err := querySurfaceSupport(e.device.GPU(), e.surface)
	if err != nil {
		return err
	}
	format := chooseSurfaceFormat(support.formats)

	e.renderPass, err = newRenderPass(e.device.Handle(), format.Format)
	if err != nil {
		return err
	}

	if w, h := e.window.FramebufferSize(); w > 0 && h > 0 {
		e.extent = vk.Extent2D{Width: uint32(w), Height: uint32(h)}
	}
	e.swapchain, err = newSwapchain(e.device, e.surface, e.renderPass.Handle(),
		format, e.extent.Width, e.extent.Height, e.info)
	if err != nil {
		return err
	}

	indices := e.device.Indices()
	e.graphicsPool, err = newCmdPool(e.device.Handle(), indices.Graphics.value)
	if err != nil {
		return err
	}
	e.transferPool, err = newCmdPool(e.device.Handle(), indices.Transfer.value)
	if err != nil {
		return err
	}

	e.frames, err = newFrameSlots(e.device.Handle(), e.graphicsPool, e.config.FramesInFlight)
	if err != nil {
		return err
	}
	e.info.Printf("engine initialized with %d frames in flight", len(e.frames))
	return nil
}

func (e *Engine) createInstance() error {
	extensions := e.window.RequiredInstanceExtensions()
	layers := e.enabledLayers()

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(e.config.AppName),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        safeString("motorino"),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         vk.ApiVersion10,
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &instance)
	if isError(ret) {
		return newError("create instance", ret)
	}
	vk.InitInstance(instance)
	e.instance = instance
	return nil
}

// enabledLayers filters the configured validation layers down to the
// ones the platform actually offers.
func (e *Engine) enabledLayers() []string {
	if len(e.config.ValidationLayers) == 0 {
		return nil
	}
	actual, err := ValidationLayers()
	if err != nil {
		e.warn.Printf("cannot enumerate validation layers: %v", err)
		return nil
	}
	supported, missing := filterSupported(actual, e.config.ValidationLayers)
	for _, name := range missing {
		e.warn.Printf("validation layer %s not available, skipping", name)
	}
	return supported
}

// BuildPipeline compiles the shader stages into the engine's graphics
// pipeline. It may be called once per engine instance, after Initialize.
func (e *Engine) BuildPipeline(stages []ShaderStage) error {
	if e.pipeline != nil {
		return fmt.Errorf("pipeline already built")
	}
	pipeline, err := buildPipeline(e.device.Handle(), e.renderPass.Handle(), stages)
	if err != nil {
		return err
	}
	e.pipeline = pipeline
	e.info.Printf("graphics pipeline built with %d stages", len(stages))
	return nil
}

// RecreateSwapchain rebuilds the swapchain at the window's current
// framebuffer size. While the framebuffer has no area the call blocks,
// pumping window events until a usable size arrives.
func (e *Engine) RecreateSwapchain() error {
	width, height := waitNonZeroExtent(e.window)
	e.extent = vk.Extent2D{Width: width, Height: height}
	e.resized = false

	e.device.WaitIdle()
	e.swapchain.Destroy(e.device.Handle())

	swapchain, err := newSwapchain(e.device, e.surface, e.renderPass.Handle(),
		e.swapchain.format, width, height, e.info)
	if err != nil {
		return err
	}
	e.swapchain = swapchain
	return nil
}

// Run pumps window events and draws until the window asks to close.
// Per-frame failures are logged and the frame skipped; the loop only
// exits on window close. Blocks until the device is idle.
func (e *Engine) Run() {
	for !e.window.ShouldClose() {
		e.window.PollEvents()
		if err := e.DrawFrame(); err != nil {
			e.err.Printf("draw frame: %v", err)
		}
	}
	e.device.WaitIdle()
}

// Destroy releases every Vulkan object the engine owns, in reverse
// creation order. Safe after a partial Initialize and safe to call
// twice.
func (e *Engine) Destroy() {
	if e.device != nil {
		e.device.WaitIdle()

		destroyFrameSlots(e.device.Handle(), e.graphicsPool, e.frames)
		e.frames = nil
		e.transferPool.Destroy(e.device.Handle())
		e.graphicsPool.Destroy(e.device.Handle())
		e.pipeline.Destroy(e.device.Handle())
		e.pipeline = nil
		e.geometry.Destroy(e.device.Handle())
		e.geometry = nil
		e.swapchain.Destroy(e.device.Handle())
		e.swapchain = nil
		e.renderPass.Destroy(e.device.Handle())
		e.renderPass = nil
		e.device.Destroy()
		e.device = nil
	}
	if e.instance != nil {
		if e.surface != vk.NullSurface {
			vk.DestroySurface(e.instance, e.surface, nil)
			e.surface = vk.NullSurface
		}
		vk.DestroyInstance(e.instance, nil)
		e.instance = nil
	}
}
