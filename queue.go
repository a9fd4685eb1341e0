package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// familyIndex distinguishes "family 0" from "not found".
type familyIndex struct {
	value uint32
	found bool
}

func (f *familyIndex) set(v uint32) {
	f.value = v
	f.found = true
}

// QueueIndices holds the family index chosen for each queue role.
type QueueIndices struct {
	Graphics familyIndex
	Present  familyIndex
	Transfer familyIndex
}

func (q QueueIndices) IsComplete() bool {
	return q.Graphics.found && q.Present.found && q.Transfer.found
}

// Distinct returns the deduplicated family indices, in role order. The
// result drives both device queue creation and image sharing mode.
func (q QueueIndices) Distinct() []uint32 {
	var out []uint32
	for _, f := range []familyIndex{q.Graphics, q.Present, q.Transfer} {
		if !f.found {
			continue
		}
		seen := false
		for _, v := range out {
			if v == f.value {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, f.value)
		}
	}
	return out
}

// findQueueIndices scans the family list for the three roles the engine
// needs. Transfer prefers a family that carries the transfer bit without
// graphics, so uploads run beside rendering; when no such family exists
// it falls back to the graphics family, which always accepts transfers.
// supportsPresent reports surface support for a family index.
func findQueueIndices(families []vk.QueueFamilyProperties, supportsPresent func(family uint32) bool) QueueIndices {
	var indices QueueIndices
	for i := range families {
		families[i].Deref()
		flags := families[i].QueueFlags
		graphics := flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		transfer := flags&vk.QueueFlags(vk.QueueTransferBit) != 0

		if graphics && !indices.Graphics.found {
			indices.Graphics.set(uint32(i))
		}
		if transfer && !graphics && !indices.Transfer.found {
			indices.Transfer.set(uint32(i))
		}
		if !indices.Present.found && supportsPresent(uint32(i)) {
			indices.Present.set(uint32(i))
		}
		if indices.IsComplete() {
			break
		}
	}
	if !indices.Transfer.found && indices.Graphics.found {
		indices.Transfer.set(indices.Graphics.value)
	}
	return indices
}
