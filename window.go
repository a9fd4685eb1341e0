package motorino

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// ResizeHandler receives framebuffer size changes from the window.
type ResizeHandler interface {
	SetExtent(width, height uint32)
}

// Window is the surface provider the engine renders into. Display is the
// GLFW implementation; tests substitute their own.
type Window interface {
	InstanceProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	FramebufferSize() (width, height int)
	SetResizeHandler(h ResizeHandler)
	PollEvents()
	WaitEvents()
	ShouldClose() bool
}

// Display wraps a GLFW window created without a client API, ready for a
// Vulkan surface.
type Display struct {
	window *glfw.Window
}

// NewDisplay initializes GLFW and opens a window. Call from the main
// goroutine with runtime.LockOSThread in effect.
func NewDisplay(width, height uint32, title string) (*Display, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, gpuErrorf("glfw reports no vulkan support")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &Display{window: window}, nil
}

func (d *Display) InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (d *Display) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

func (d *Display) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, gpuErrorf("create window surface: %v", err)
	}
	return vk.SurfaceFromPointer(surface), nil
}

func (d *Display) FramebufferSize() (int, int) {
	return d.window.GetFramebufferSize()
}

func (d *Display) SetResizeHandler(h ResizeHandler) {
	d.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.SetExtent(uint32(width), uint32(height))
	})
}

func (d *Display) PollEvents() { glfw.PollEvents() }
func (d *Display) WaitEvents() { glfw.WaitEvents() }

func (d *Display) ShouldClose() bool {
	return d.window.ShouldClose()
}

// Handle exposes the underlying GLFW window for callers that drive input
// themselves.
func (d *Display) Handle() *glfw.Window {
	return d.window
}

func (d *Display) Destroy() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	glfw.Terminate()
}
