package motorino

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestBuildPipelineRejectsEmptyStageList(t *testing.T) {
	_, err := buildPipeline(nil, vk.NullRenderPass, nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrShaderCompilation))
}

func TestBuildPipelineRejectsEmptyBytecode(t *testing.T) {
	stages := []ShaderStage{
		{Stage: vk.ShaderStageVertexBit, Code: []byte{0, 0, 0, 0}},
		{Stage: vk.ShaderStageFragmentBit, Code: nil},
	}
	_, err := buildPipeline(nil, vk.NullRenderPass, stages)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrShaderCompilation))
}

func TestBuildPipelineRejectsUnalignedBytecode(t *testing.T) {
	stages := []ShaderStage{
		{Stage: vk.ShaderStageVertexBit, Code: []byte{0, 0, 0, 0, 0, 0}},
	}
	_, err := buildPipeline(nil, vk.NullRenderPass, stages)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrShaderCompilation))
}
