package motorino

import (
	"strings"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// safeString guarantees the NUL terminator Vulkan expects on C strings.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// sliceUint32 repacks SPIR-V bytecode into the word slice
// vk.ShaderModuleCreateInfo wants. Length must be a multiple of four.
func sliceUint32(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	buf := make([]uint32, len(data)/4)
	vk.Memcopy(unsafe.Pointer(&buf[0]), data)
	return buf
}
