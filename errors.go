package motorino

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Failure categories. Every error returned by this package wraps one of
// these, so callers can branch with errors.Is without inspecting strings.
var (
	// ErrGpuOperation marks a Vulkan call that returned a non-success
	// result, or a missing GPU capability discovered during setup.
	ErrGpuOperation = errors.New("gpu operation failed")

	// ErrShaderCompilation marks invalid or missing shader bytecode.
	ErrShaderCompilation = errors.New("shader compilation failed")
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// newError wraps a non-success Vulkan result with the operation that
// produced it. Returns nil on vk.Success so call sites can return it
// directly.
func newError(op string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrGpuOperation, op, vk.Error(ret))
}

func gpuErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrGpuOperation, fmt.Sprintf(format, args...))
}

func shaderErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrShaderCompilation, fmt.Sprintf(format, args...))
}
