package motorino

import (
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// Device bundles the physical device choice, the logical device and the
// queues retrieved for each role. Queues may alias when roles share a
// family.
type Device struct {
	gpu      vk.PhysicalDevice
	handle   vk.Device
	indices  QueueIndices
	memProps vk.PhysicalDeviceMemoryProperties

	graphicsQueue vk.Queue
	presentQueue  vk.Queue
	transferQueue vk.Queue
}

func (d *Device) Handle() vk.Device       { return d.handle }
func (d *Device) GPU() vk.PhysicalDevice  { return d.gpu }
func (d *Device) Indices() QueueIndices   { return d.indices }
func (d *Device) GraphicsQueue() vk.Queue { return d.graphicsQueue }
func (d *Device) PresentQueue() vk.Queue  { return d.presentQueue }
func (d *Device) TransferQueue() vk.Queue { return d.transferQueue }

func (d *Device) WaitIdle() {
	if d.handle != nil {
		vk.DeviceWaitIdle(d.handle)
	}
}

func (d *Device) Destroy() {
	if d.handle == nil {
		return
	}
	vk.DestroyDevice(d.handle, nil)
	d.handle = nil
}

// newDevice picks the first physical device whose queue families cover
// graphics, present and transfer, then creates the logical device with
// one queue per distinct family.
func newDevice(instance vk.Instance, surface vk.Surface, layers, wantedExtensions []string, info, warn *log.Logger) (*Device, error) {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if isError(ret) {
		return nil, newError("enumerate physical devices", ret)
	}
	if gpuCount == 0 {
		return nil, gpuErrorf("no physical devices with vulkan support")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)
	if isError(ret) {
		return nil, newError("enumerate physical devices", ret)
	}

	var chosen vk.PhysicalDevice
	var indices QueueIndices
	for _, gpu := range gpus {
		var familyCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &familyCount, nil)
		families := make([]vk.QueueFamilyProperties, familyCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &familyCount, families)

		candidate := gpu
		found := findQueueIndices(families, func(family uint32) bool {
			var support vk.Bool32
			vk.GetPhysicalDeviceSurfaceSupport(candidate, family, surface, &support)
			return support.B()
		})
		if found.IsComplete() {
			chosen = gpu
			indices = found
			break
		}
	}
	if chosen == nil {
		return nil, gpuErrorf("no physical device exposes graphics, present and transfer queues")
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(chosen, &props)
	props.Deref()
	info.Printf("selected physical device: %s", vk.ToString(props.DeviceName[:]))
	info.Printf("queue families: graphics=%d present=%d transfer=%d",
		indices.Graphics.value, indices.Present.value, indices.Transfer.value)

	extensions := []string{"VK_KHR_swapchain"}
	actual, err := DeviceExtensions(chosen)
	if err != nil {
		return nil, err
	}
	supported, missing := filterSupported(actual, extensions)
	if len(missing) > 0 {
		return nil, gpuErrorf("missing required device extensions: %v", missing)
	}
	wanted, dropped := filterSupported(actual, wantedExtensions)
	for _, name := range dropped {
		warn.Printf("device extension %s not available, skipping", name)
	}
	extensions = append(supported, wanted...)

	queuePriorities := []float32{1.0}
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range indices.Distinct() {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: queuePriorities,
		})
	}

	var handle vk.Device
	ret = vk.CreateDevice(chosen, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &handle)
	if isError(ret) {
		return nil, newError("create logical device", ret)
	}

	device := &Device{
		gpu:     chosen,
		handle:  handle,
		indices: indices,
	}
	vk.GetPhysicalDeviceMemoryProperties(chosen, &device.memProps)
	device.memProps.Deref()

	vk.GetDeviceQueue(handle, indices.Graphics.value, 0, &device.graphicsQueue)
	vk.GetDeviceQueue(handle, indices.Present.value, 0, &device.presentQueue)
	vk.GetDeviceQueue(handle, indices.Transfer.value, 0, &device.transferQueue)
	return device, nil
}
