package motorino

import (
	vk "github.com/vulkan-go/vulkan"
)

// ShaderStage pairs SPIR-V bytecode with the pipeline stage it serves.
type ShaderStage struct {
	Stage vk.ShaderStageFlagBits
	Code  []byte
}

// Pipeline is the fixed graphics pipeline: one vertex binding, triangle
// list assembly, back-face culling with clockwise winding, opaque blend.
// Viewport and scissor are dynamic so resizes never touch it.
type Pipeline struct {
	layout vk.PipelineLayout
	handle vk.Pipeline
}

func (p *Pipeline) Handle() vk.Pipeline { return p.handle }

func loadShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, shaderErrorf("create shader module: %s", vk.Error(ret))
	}
	return module, nil
}

func buildPipeline(device vk.Device, renderPass vk.RenderPass, stages []ShaderStage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, shaderErrorf("no shader stages supplied")
	}
	for i, stage := range stages {
		if len(stage.Code) == 0 {
			return nil, shaderErrorf("stage %d has empty bytecode", i)
		}
		if len(stage.Code)%4 != 0 {
			return nil, shaderErrorf("stage %d bytecode length %d is not a multiple of 4", i, len(stage.Code))
		}
	}

	modules := make([]vk.ShaderModule, 0, len(stages))
	defer func() {
		for _, module := range modules {
			vk.DestroyShaderModule(device, module, nil)
		}
	}()

	stageInfos := make([]vk.PipelineShaderStageCreateInfo, 0, len(stages))
	for _, stage := range stages {
		module, err := loadShaderModule(device, stage.Code)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
		stageInfos = append(stageInfos, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  stage.Stage,
			Module: module,
			PName:  safeString("main"),
		})
	}

	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{vertexBindingDescription()},
		VertexAttributeDescriptionCount: uint32(len(vertexAttributeDescriptions())),
		PVertexAttributeDescriptions:    vertexAttributeDescriptions(),
	}
	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: vk.PrimitiveTopologyTriangleList,
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: vk.PolygonModeFill,
		CullMode:    vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:   vk.FrontFaceClockwise,
		LineWidth:   1.0,
	}
	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
	}
	blendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
		BlendEnable: vk.False,
	}
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{blendAttachment},
	}
	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	dynamic := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	p := &Pipeline{}
	ret := vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType: vk.StructureTypePipelineLayoutCreateInfo,
	}, nil, &p.layout)
	if isError(ret) {
		return nil, newError("create pipeline layout", ret)
	}

	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.GraphicsPipelineCreateInfo{{
			SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
			StageCount:          uint32(len(stageInfos)),
			PStages:             stageInfos,
			PVertexInputState:   &vertexInput,
			PInputAssemblyState: &inputAssembly,
			PViewportState:      &viewportState,
			PRasterizationState: &rasterizer,
			PMultisampleState:   &multisample,
			PColorBlendState:    &colorBlend,
			PDynamicState:       &dynamic,
			Layout:              p.layout,
			RenderPass:          renderPass,
			Subpass:             0,
		}}, nil, pipelines)
	if isError(ret) {
		p.Destroy(device)
		return nil, newError("create graphics pipeline", ret)
	}
	p.handle = pipelines[0]
	return p, nil
}

func (p *Pipeline) Destroy(device vk.Device) {
	if p == nil {
		return
	}
	if p.handle != vk.NullPipeline {
		vk.DestroyPipeline(device, p.handle, nil)
		p.handle = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, p.layout, nil)
		p.layout = vk.NullPipelineLayout
	}
}
