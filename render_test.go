package motorino_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"

	"github.com/nkgt/motorino"
)

func init() {
	runtime.LockOSThread()
}

func quadBlob(t *testing.T) ([]byte, uint32, uint32) {
	t.Helper()
	vertices := []motorino.Vertex{
		{Pos: lin.Vec2{-0.5, -0.5}, Color: lin.Vec3{1, 0, 0}},
		{Pos: lin.Vec2{0.5, -0.5}, Color: lin.Vec3{0, 1, 0}},
		{Pos: lin.Vec2{0.5, 0.5}, Color: lin.Vec3{0, 0, 1}},
		{Pos: lin.Vec2{-0.5, 0.5}, Color: lin.Vec3{1, 1, 1}},
	}
	indices := []uint16{0, 1, 2, 2, 3, 0}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, vertices))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, indices))
	return buf.Bytes(), uint32(len(vertices)), uint32(len(indices))
}

func loadShader(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("shader %s not available: %v", path, err)
	}
	return data
}

// TestRenderQuad drives the full stack against a real window and GPU. It
// skips itself on headless machines, when no Vulkan device is usable or
// when the compiled shaders are missing from testdata.
func TestRenderQuad(t *testing.T) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		t.Skip("no display available")
	}

	display, err := motorino.NewDisplay(800, 600, "motorino render test")
	if err != nil {
		t.Skipf("cannot open window: %v", err)
	}
	defer display.Destroy()

	engine := motorino.New(motorino.Config{AppName: "motorino render test"}, display)
	defer engine.Destroy()

	if err := engine.Initialize(); err != nil {
		t.Skipf("no usable vulkan device: %v", err)
	}

	vert := loadShader(t, "testdata/quad.vert.spv")
	frag := loadShader(t, "testdata/quad.frag.spv")
	require.NoError(t, engine.BuildPipeline([]motorino.ShaderStage{
		{Stage: vk.ShaderStageVertexBit, Code: vert},
		{Stage: vk.ShaderStageFragmentBit, Code: frag},
	}))

	blob, vertexCount, indexCount := quadBlob(t)
	require.NoError(t, engine.SubmitGeometry(blob, vertexCount, indexCount))
	require.Equal(t, vertexCount, engine.Geometry().VertexCount())
	require.Equal(t, indexCount, engine.Geometry().IndexCount())

	for i := 0; i < 10; i++ {
		display.PollEvents()
		require.NoError(t, engine.DrawFrame())
	}

	// Resubmission replaces the mesh in place.
	require.NoError(t, engine.SubmitGeometry(blob, vertexCount, indexCount))

	require.NoError(t, engine.RecreateSwapchain())
	for i := 0; i < 5; i++ {
		display.PollEvents()
		require.NoError(t, engine.DrawFrame())
	}
}
