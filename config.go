package motorino

import (
	"log"
	"os"
)

// DefaultFramesInFlight is how many frames may be recorded ahead of the
// GPU before the host blocks.
const DefaultFramesInFlight = 2

// Config collects everything the engine needs before it touches the GPU.
// Zero values are filled in by Defaults.
type Config struct {
	AppName string

	// Initial framebuffer extent, used until the window reports a size.
	Width  uint32
	Height uint32

	FramesInFlight int

	// Layers and device extensions wanted on top of the required set.
	// Unsupported entries are logged and dropped.
	ValidationLayers []string
	DeviceExtensions []string

	Info *log.Logger
	Warn *log.Logger
	Err  *log.Logger
}

func (c *Config) Defaults() {
	if c.AppName == "" {
		c.AppName = "motorino"
	}
	if c.Width == 0 {
		c.Width = 800
	}
	if c.Height == 0 {
		c.Height = 600
	}
	if c.FramesInFlight <= 0 {
		c.FramesInFlight = DefaultFramesInFlight
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	if c.Info == nil {
		c.Info = log.New(os.Stderr, "INFO: ", flags)
	}
	if c.Warn == nil {
		c.Warn = log.New(os.Stderr, "WARNING: ", flags)
	}
	if c.Err == nil {
		c.Err = log.New(os.Stderr, "ERROR: ", flags)
	}
}
