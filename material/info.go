package material

// Names and binding points of the engine-provided uniform blocks. The
// artifact records this table so OpenGL backends, which cannot rely on
// layout(binding=) support everywhere, can bind blocks by name.
const (
	BindingPerView       uint8 = 0
	BindingPerRenderable uint8 = 1
	BindingLights        uint8 = 2
	BindingShadows       uint8 = 3
	BindingBones         uint8 = 4
	BindingMorphing      uint8 = 5
	BindingPerMaterial   uint8 = 6
)

// Engine uniform block names as they appear in generated shader source.
const (
	BlockPerView       = "FrameUniforms"
	BlockPerRenderable = "ObjectUniforms"
	BlockLights        = "LightsUniforms"
	BlockShadows       = "ShadowUniforms"
	BlockBones         = "BonesUniforms"
	BlockMorphing      = "MorphingUniforms"
)

// Material sampler bindings start after the engine's per-view samplers on
// surface materials. Post-process materials own the whole range.
const (
	surfaceSamplerBase     = 4
	postProcessSamplerBase = 0
)

// UniformField is one member of a uniform interface block.
type UniformField struct {
	Name      string
	Type      UniformType
	ArraySize uint32 // 0 for scalars
	Precision Precision
}

// UniformBlock describes the material's parameter uniform block.
type UniformBlock struct {
	Name   string
	Fields []UniformField
}

// SamplerInfo is one sampler parameter of the material.
type SamplerInfo struct {
	Name      string
	Type      SamplerType
	Format    SamplerFormat
	Precision Precision
}

// SamplerBlock describes the material's sampler set.
type SamplerBlock struct {
	Name     string
	Samplers []SamplerInfo
}

// Subpass describes the material's subpass input, if declared.
type Subpass struct {
	Valid      bool
	Block      string
	Name       string
	Format     SamplerFormat
	Precision  Precision
	Attachment uint8
	Binding    uint8
}

// BlockBinding pairs a uniform block name with its fixed binding slot.
type BlockBinding struct {
	Name    string
	Binding uint8
}

// SamplerBinding pairs a sampler name with its assigned binding slot.
type SamplerBinding struct {
	Name    string
	Binding uint8
}

// UniformBlockBindings returns the engine binding table plus the
// material's own block, in binding order.
func UniformBlockBindings(materialBlock string) []BlockBinding {
	return []BlockBinding{
		{BlockPerView, BindingPerView},
		{BlockPerRenderable, BindingPerRenderable},
		{BlockLights, BindingLights},
		{BlockShadows, BindingShadows},
		{BlockBones, BindingBones},
		{BlockMorphing, BindingMorphing},
		{materialBlock, BindingPerMaterial},
	}
}

// BindSamplers assigns consecutive binding slots to the material's
// samplers, starting at the domain's reserved base.
func BindSamplers(domain Domain, block SamplerBlock) []SamplerBinding {
	base := surfaceSamplerBase
	if domain == DomainPostProcess {
		base = postProcessSamplerBase
	}
	bindings := make([]SamplerBinding, len(block.Samplers))
	for i, s := range block.Samplers {
		bindings[i] = SamplerBinding{Name: s.Name, Binding: uint8(base + i)}
	}
	return bindings
}

// Info is the read-only description of a material shared by every
// compilation task of one build. It is assembled once before any parallel
// work starts and never mutated afterwards.
type Info struct {
	Name   string
	Domain Domain

	UniformBlock UniformBlock
	SamplerBlock SamplerBlock
	Subpass      Subpass

	SamplerBindings []SamplerBinding

	IsLit                    bool
	Shading                  Shading
	BlendingMode             BlendingMode
	PostLightingBlendingMode BlendingMode
	HasDoubleSidedCapability bool
	HasExternalSamplers      bool
	HasShadowMultiplier      bool
	HasTransparentShadow     bool
	HasCustomSurfaceShading  bool
	SpecularAntiAliasing     bool
	ClearCoatIorChange       bool
	FlipUV                   bool
	MultiBounceAO            bool
	SpecularAO               bool
	Instanced                bool

	RefractionMode RefractionMode
	RefractionType RefractionType
	ReflectionMode ReflectionMode

	RequiredAttributes AttributeMask
	FeatureLevel       FeatureLevel
	Properties         PropertyMask

	// Variables are the named custom varying slots; empty slots are
	// not emitted.
	Variables [4]string

	Outputs []Output
	Defines []Define
}

// HasExternalSampler reports whether any sampler parameter is an external
// (platform video) sampler.
func (b SamplerBlock) HasExternalSampler() bool {
	for _, s := range b.Samplers {
		if s.Type == SamplerExternal {
			return true
		}
	}
	return false
}
