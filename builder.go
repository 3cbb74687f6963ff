package matc

import (
	"fmt"

	"github.com/gogpu/matc/material"
)

// Per-material capacity limits.
const (
	MaxParameters   = 48
	MaxColorOutputs = 4
	MaxDepthOutputs = 1
	MaxSubpasses    = 1
	MaxVariables    = 4
)

// parameterKind separates the three parameter classes a material can
// declare.
type parameterKind uint8

const (
	paramUniform parameterKind = iota
	paramSampler
	paramSubpass
)

type parameter struct {
	kind        parameterKind
	name        string
	uniformType material.UniformType
	arraySize   uint32
	precision   material.Precision
	samplerType material.SamplerType
	format      material.SamplerFormat
}

// ParameterOption refines a parameter declaration.
type ParameterOption func(*parameter)

// WithPrecision requests a precision qualifier for the parameter.
func WithPrecision(p material.Precision) ParameterOption {
	return func(param *parameter) { param.precision = p }
}

// WithFormat sets the sampler component format. Only meaningful for
// sampler and subpass parameters.
func WithFormat(f material.SamplerFormat) ParameterOption {
	return func(param *parameter) { param.format = f }
}

// WithArraySize declares the parameter as an array of the given length.
// Only meaningful for uniform parameters.
func WithArraySize(n int) ParameterOption {
	return func(param *parameter) { param.arraySize = uint32(n) }
}

// MaterialBuilder collects a material description through a fluent
// interface and compiles it with Build. The zero value is not usable;
// create builders with NewMaterialBuilder.
//
// Builders are not safe for concurrent use. A configuration error (too
// many parameters, invalid output combination) is recorded on first
// occurrence and fails the eventual Build.
type MaterialBuilder struct {
	err error

	name          string
	domain        material.Domain
	shading       material.Shading
	interpolation material.Interpolation
	vertexDomain  material.VertexDomain

	blending             material.BlendingMode
	postLightingBlending material.BlendingMode
	transparencyMode     material.TransparencyMode
	reflectionMode       material.ReflectionMode
	refractionMode       material.RefractionMode
	refractionType       material.RefractionType
	culling              material.CullingMode

	colorWrite    bool
	depthWrite    bool
	depthWriteSet bool
	depthTest     bool
	instanced     bool

	doubleSided           bool
	doubleSidedCapability bool

	maskThreshold        float32
	shadowMultiplier     bool
	transparentShadow    bool
	specularAA           bool
	specularAAVariance   float32
	specularAAThreshold  float32
	clearCoatIorChange   bool
	flipUV               bool
	customSurfaceShading bool
	multiBounceAO        bool
	specularAO           bool

	featureLevel material.FeatureLevel
	platform     material.Platform
	targetAPI    material.TargetAPI
	optimization material.Optimization

	printShaders      bool
	generateDebugInfo bool
	framebufferFetch  bool

	variantFilter material.VariantFilter
	defines       []material.Define
	params        []parameter
	outputs       []material.Output
	variables     [MaxVariables]string

	requiredAttributes material.AttributeMask

	vertexCode   string
	fragmentCode string

	// Collaborator overrides, primarily for tests. Nil selects the
	// built-in WGSL generator and naga post-processor.
	generator     ShaderGenerator
	postProcessor PostProcessor
}

// NewMaterialBuilder returns a builder with the default material
// configuration: an opaque, unlit surface material for all platforms,
// compiled at the performance optimization level.
func NewMaterialBuilder() *MaterialBuilder {
	return &MaterialBuilder{
		name:                "Unnamed",
		colorWrite:          true,
		depthWrite:          true,
		depthTest:           true,
		maskThreshold:       0.4,
		specularAAVariance:  0.15,
		specularAAThreshold: 0.1,
		clearCoatIorChange:  true,
		flipUV:              true,
		featureLevel:        material.FeatureLevel1,
		platform:            material.PlatformAll,
		optimization:        material.OptimizationPerformance,
		culling:             material.CullingBack,
	}
}

// Err returns the first configuration error recorded so far, or nil.
// Build reports the same error; Err lets callers fail earlier with a
// message tied to the offending call.
func (b *MaterialBuilder) Err() error { return b.err }

// fail records the first configuration error.
func (b *MaterialBuilder) fail(err error) *MaterialBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Name sets the material name recorded in the artifact.
func (b *MaterialBuilder) Name(name string) *MaterialBuilder {
	b.name = name
	return b
}

// Shading selects the lighting model.
func (b *MaterialBuilder) Shading(s material.Shading) *MaterialBuilder {
	b.shading = s
	return b
}

// Interpolation selects varying interpolation.
func (b *MaterialBuilder) Interpolation(i material.Interpolation) *MaterialBuilder {
	b.interpolation = i
	return b
}

// MaterialDomain selects surface or post-process compilation.
func (b *MaterialBuilder) MaterialDomain(d material.Domain) *MaterialBuilder {
	b.domain = d
	return b
}

// Material sets the fragment-stage material snippet (WGSL statements
// operating on the local MaterialInputs value named "material").
func (b *MaterialBuilder) Material(code string) *MaterialBuilder {
	b.fragmentCode = code
	return b
}

// MaterialVertex sets the vertex-stage snippet (WGSL statements that may
// adjust the vertex output value named "out").
func (b *MaterialBuilder) MaterialVertex(code string) *MaterialBuilder {
	b.vertexCode = code
	return b
}

// Uniform declares a uniform parameter in the material's parameter block.
func (b *MaterialBuilder) Uniform(t material.UniformType, name string, opts ...ParameterOption) *MaterialBuilder {
	return b.addParameter(parameter{kind: paramUniform, name: name, uniformType: t}, opts)
}

// Sampler declares a texture sampler parameter.
func (b *MaterialBuilder) Sampler(t material.SamplerType, name string, opts ...ParameterOption) *MaterialBuilder {
	return b.addParameter(parameter{
		kind: paramSampler, name: name, samplerType: t, format: material.SamplerFormatFloat,
	}, opts)
}

// Subpass declares a subpass input parameter. Subpass parameters must
// have float format; only one subpass is supported.
func (b *MaterialBuilder) Subpass(name string, opts ...ParameterOption) *MaterialBuilder {
	p := parameter{kind: paramSubpass, name: name, format: material.SamplerFormatFloat}
	for _, opt := range opts {
		opt(&p)
	}
	if p.format != material.SamplerFormatFloat {
		return b.fail(fmt.Errorf("matc: subpass parameter %q must have float format", name))
	}
	subpassCount := 0
	for _, q := range b.params {
		if q.kind == paramSubpass {
			subpassCount++
		}
	}
	if subpassCount >= MaxSubpasses {
		return b.fail(fmt.Errorf("matc: too many subpasses (max %d)", MaxSubpasses))
	}
	return b.addParameter(p, nil)
}

func (b *MaterialBuilder) addParameter(p parameter, opts []ParameterOption) *MaterialBuilder {
	for _, opt := range opts {
		opt(&p)
	}
	if len(b.params) >= MaxParameters {
		return b.fail(fmt.Errorf("matc: too many parameters (max %d)", MaxParameters))
	}
	b.params = append(b.params, p)
	return b
}

// Variable names one of the custom varying slots. A named slot becomes
// a vec4 varying the vertex snippet writes and the fragment snippet
// reads.
func (b *MaterialBuilder) Variable(index int, name string) *MaterialBuilder {
	if index < 0 || index >= MaxVariables {
		return b.fail(fmt.Errorf("matc: variable index %d out of range (max %d)", index, MaxVariables-1))
	}
	b.variables[index] = name
	return b
}

// Require marks a vertex attribute as required by the material.
func (b *MaterialBuilder) Require(a material.VertexAttribute) *MaterialBuilder {
	b.requiredAttributes = b.requiredAttributes.Set(a)
	return b
}

// Output declares a shader output. A location of -1 assigns the next
// free location. Depth outputs must be scalar floats.
func (b *MaterialBuilder) Output(target material.OutputTarget, t material.OutputType,
	name string, location int) *MaterialBuilder {

	if target == material.OutputDepth && t != material.OutputFloat {
		return b.fail(fmt.Errorf("matc: depth output %q must be of type float", name))
	}
	if location < -1 {
		return b.fail(fmt.Errorf("matc: output %q location must be >= 0 (or -1 for default)", name))
	}
	if location == -1 {
		location = 0
		if n := len(b.outputs); n > 0 {
			location = b.outputs[n-1].Location + 1
		}
	}
	b.outputs = append(b.outputs, material.Output{
		Name: name, Target: target, Type: t, Location: location,
	})

	colorCount, depthCount := 0, 0
	for _, out := range b.outputs {
		switch out.Target {
		case material.OutputColor:
			colorCount++
		case material.OutputDepth:
			depthCount++
		}
	}
	if colorCount > MaxColorOutputs {
		return b.fail(fmt.Errorf("matc: a maximum of %d color outputs is allowed", MaxColorOutputs))
	}
	if depthCount > MaxDepthOutputs {
		return b.fail(fmt.Errorf("matc: a maximum of %d depth output is allowed", MaxDepthOutputs))
	}
	return b
}

// Blending sets the blending mode.
func (b *MaterialBuilder) Blending(mode material.BlendingMode) *MaterialBuilder {
	b.blending = mode
	return b
}

// PostLightingBlending sets how the post-lighting color blends.
func (b *MaterialBuilder) PostLightingBlending(mode material.BlendingMode) *MaterialBuilder {
	b.postLightingBlending = mode
	return b
}

// TransparencyMode refines transparent rendering.
func (b *MaterialBuilder) TransparencyMode(mode material.TransparencyMode) *MaterialBuilder {
	b.transparencyMode = mode
	return b
}

// ReflectionMode selects the reflection source.
func (b *MaterialBuilder) ReflectionMode(mode material.ReflectionMode) *MaterialBuilder {
	b.reflectionMode = mode
	return b
}

// RefractionMode selects where refraction samples from.
func (b *MaterialBuilder) RefractionMode(mode material.RefractionMode) *MaterialBuilder {
	b.refractionMode = mode
	return b
}

// RefractionType models the refracting volume.
func (b *MaterialBuilder) RefractionType(t material.RefractionType) *MaterialBuilder {
	b.refractionType = t
	return b
}

// VertexDomain sets the coordinate space of incoming vertices.
func (b *MaterialBuilder) VertexDomain(d material.VertexDomain) *MaterialBuilder {
	b.vertexDomain = d
	return b
}

// Culling sets the face culling mode.
func (b *MaterialBuilder) Culling(mode material.CullingMode) *MaterialBuilder {
	b.culling = mode
	return b
}

// ColorWrite toggles color buffer writes.
func (b *MaterialBuilder) ColorWrite(enable bool) *MaterialBuilder {
	b.colorWrite = enable
	return b
}

// DepthWrite toggles depth buffer writes.
func (b *MaterialBuilder) DepthWrite(enable bool) *MaterialBuilder {
	b.depthWrite = enable
	b.depthWriteSet = true
	return b
}

// DepthCulling toggles depth testing.
func (b *MaterialBuilder) DepthCulling(enable bool) *MaterialBuilder {
	b.depthTest = enable
	return b
}

// Instanced enables instanced rendering support.
func (b *MaterialBuilder) Instanced(enable bool) *MaterialBuilder {
	b.instanced = enable
	return b
}

// DoubleSided makes the material double sided and records that the
// capability was explicitly set.
func (b *MaterialBuilder) DoubleSided(doubleSided bool) *MaterialBuilder {
	b.doubleSided = doubleSided
	b.doubleSidedCapability = true
	return b
}

// MaskThreshold sets the alpha cutoff for masked blending.
func (b *MaterialBuilder) MaskThreshold(threshold float32) *MaterialBuilder {
	b.maskThreshold = threshold
	return b
}

// ShadowMultiplier enables the shadow multiplier for unlit materials.
func (b *MaterialBuilder) ShadowMultiplier(enable bool) *MaterialBuilder {
	b.shadowMultiplier = enable
	return b
}

// TransparentShadow enables transparent shadow support.
func (b *MaterialBuilder) TransparentShadow(enable bool) *MaterialBuilder {
	b.transparentShadow = enable
	return b
}

// SpecularAntiAliasing toggles specular anti-aliasing.
func (b *MaterialBuilder) SpecularAntiAliasing(enable bool) *MaterialBuilder {
	b.specularAA = enable
	return b
}

// SpecularAntiAliasingVariance sets the screen-space variance.
func (b *MaterialBuilder) SpecularAntiAliasingVariance(v float32) *MaterialBuilder {
	b.specularAAVariance = v
	return b
}

// SpecularAntiAliasingThreshold sets the clamping threshold.
func (b *MaterialBuilder) SpecularAntiAliasingThreshold(t float32) *MaterialBuilder {
	b.specularAAThreshold = t
	return b
}

// ClearCoatIorChange toggles IOR change at the clear coat interface.
func (b *MaterialBuilder) ClearCoatIorChange(enable bool) *MaterialBuilder {
	b.clearCoatIorChange = enable
	return b
}

// FlipUV toggles the V coordinate flip applied in the vertex stage.
func (b *MaterialBuilder) FlipUV(enable bool) *MaterialBuilder {
	b.flipUV = enable
	return b
}

// CustomSurfaceShading enables the user-supplied surface shading
// function. Only valid with lit shading.
func (b *MaterialBuilder) CustomSurfaceShading(enable bool) *MaterialBuilder {
	b.customSurfaceShading = enable
	return b
}

// MultiBounceAmbientOcclusion toggles multi-bounce AO.
func (b *MaterialBuilder) MultiBounceAmbientOcclusion(enable bool) *MaterialBuilder {
	b.multiBounceAO = enable
	return b
}

// SpecularAmbientOcclusion toggles specular AO.
func (b *MaterialBuilder) SpecularAmbientOcclusion(enable bool) *MaterialBuilder {
	b.specularAO = enable
	return b
}

// FeatureLevel declares the feature level the material targets.
func (b *MaterialBuilder) FeatureLevel(level material.FeatureLevel) *MaterialBuilder {
	b.featureLevel = level
	return b
}

// Platform selects which shader models to compile.
func (b *MaterialBuilder) Platform(p material.Platform) *MaterialBuilder {
	b.platform = p
	return b
}

// TargetAPI adds target APIs to the build. Calls accumulate.
func (b *MaterialBuilder) TargetAPI(api material.TargetAPI) *MaterialBuilder {
	b.targetAPI |= api
	return b
}

// Optimization sets the optimization level.
func (b *MaterialBuilder) Optimization(opt material.Optimization) *MaterialBuilder {
	b.optimization = opt
	return b
}

// PrintShaders logs every generated shader at debug level.
func (b *MaterialBuilder) PrintShaders(enable bool) *MaterialBuilder {
	b.printShaders = enable
	return b
}

// GenerateDebugInfo keeps debug info in compiled output and disables
// SPIR-V dictionary compression.
func (b *MaterialBuilder) GenerateDebugInfo(enable bool) *MaterialBuilder {
	b.generateDebugInfo = enable
	return b
}

// EnableFramebufferFetch enables framebuffer fetch, which forces Vulkan
// shader semantics for the whole build.
func (b *MaterialBuilder) EnableFramebufferFetch() *MaterialBuilder {
	b.framebufferFetch = true
	return b
}

// VariantFilter excludes variant features from the build. Calls
// accumulate.
func (b *MaterialBuilder) VariantFilter(filter material.VariantFilter) *MaterialBuilder {
	b.variantFilter |= filter
	return b
}

// ShaderDefine injects a constant definition into generated source.
// The value must be a WGSL constant expression.
func (b *MaterialBuilder) ShaderDefine(name, value string) *MaterialBuilder {
	b.defines = append(b.defines, material.Define{Name: name, Value: value})
	return b
}

// WithGenerator overrides the shader generator. Mainly for tests.
func (b *MaterialBuilder) WithGenerator(g ShaderGenerator) *MaterialBuilder {
	b.generator = g
	return b
}

// WithPostProcessor overrides the post-processor. Mainly for tests.
func (b *MaterialBuilder) WithPostProcessor(p PostProcessor) *MaterialBuilder {
	b.postProcessor = p
	return b
}

// isLit reports whether the configured shading model receives lighting.
func (b *MaterialBuilder) isLit() bool { return b.shading.IsLit() }

// hasCustomDepthShader reports whether the material needs its own depth
// programs instead of the engine's shared ones.
func (b *MaterialBuilder) hasCustomDepthShader() bool {
	return b.vertexCode != "" ||
		b.blending == material.BlendingMasked ||
		(b.transparentShadow &&
			(b.blending == material.BlendingTransparent || b.blending == material.BlendingFade))
}
