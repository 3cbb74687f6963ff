package material

// ShaderModel selects the feature class of the generated shaders.
type ShaderModel uint8

const (
	// ShaderModelMobile targets GLES 3.0 class hardware.
	ShaderModelMobile ShaderModel = iota
	// ShaderModelDesktop targets OpenGL 3.3+ class hardware.
	ShaderModelDesktop

	shaderModelCount = 2
)

// String returns the lowercase name of the shader model.
func (m ShaderModel) String() string {
	switch m {
	case ShaderModelMobile:
		return "mobile"
	case ShaderModelDesktop:
		return "desktop"
	}
	return "unknown"
}

// ShaderModelMask is a bitmask over ShaderModel values.
type ShaderModelMask uint32

// Set returns the mask with the given model's bit set.
func (m ShaderModelMask) Set(model ShaderModel) ShaderModelMask {
	return m | 1<<model
}

// Has reports whether the given model's bit is set.
func (m ShaderModelMask) Has(model ShaderModel) bool {
	return m&(1<<model) != 0
}

// Count returns the number of models in the mask.
func (m ShaderModelMask) Count() int {
	n := 0
	for model := ShaderModel(0); model < shaderModelCount; model++ {
		if m.Has(model) {
			n++
		}
	}
	return n
}

// TargetAPI is a bitmask of graphics APIs to compile for.
type TargetAPI uint8

const (
	TargetOpenGL TargetAPI = 1 << iota
	TargetVulkan
	TargetMetal

	TargetAll = TargetOpenGL | TargetVulkan | TargetMetal
)

// IsSingle reports whether exactly one API bit is set.
func (api TargetAPI) IsSingle() bool {
	return api != 0 && api&(api-1) == 0
}

// String returns a readable name for a single-bit API, or "all"/"none"
// for the combined cases.
func (api TargetAPI) String() string {
	switch api {
	case TargetOpenGL:
		return "opengl"
	case TargetVulkan:
		return "vulkan"
	case TargetMetal:
		return "metal"
	case TargetAll:
		return "all"
	case 0:
		return "none"
	}
	return "mixed"
}

// TargetLanguage is the representation a permutation compiles through.
type TargetLanguage uint8

const (
	// LanguageGLSL emits GLSL text directly, without the optimizing
	// SPIR-V round trip.
	LanguageGLSL TargetLanguage = iota
	// LanguageSPIRV routes the shader through SPIR-V code generation.
	LanguageSPIRV
)

// String returns the lowercase name of the target language.
func (l TargetLanguage) String() string {
	if l == LanguageGLSL {
		return "glsl"
	}
	return "spirv"
}

// Optimization selects how much work the post-processor performs.
type Optimization uint8

const (
	OptimizationNone Optimization = iota
	OptimizationPreprocessor
	OptimizationSize
	OptimizationPerformance
)

// ShaderStage identifies the pipeline stage a program runs in.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// String returns the lowercase name of the stage.
func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// Platform selects which shader models a build produces.
type Platform uint8

const (
	PlatformMobile Platform = iota
	PlatformDesktop
	PlatformAll
)

// Domain separates surface materials from post-processing materials.
type Domain uint8

const (
	DomainSurface Domain = iota
	DomainPostProcess
)

// Shading is the lighting model applied to a surface material.
type Shading uint8

const (
	ShadingUnlit Shading = iota
	ShadingLit
	ShadingSubsurface
	ShadingCloth
	ShadingSpecularGlossiness
)

// IsLit reports whether the shading model receives lighting.
func (s Shading) IsLit() bool { return s != ShadingUnlit }

// Interpolation selects how varyings are interpolated.
type Interpolation uint8

const (
	InterpolationSmooth Interpolation = iota
	InterpolationFlat
)

// BlendingMode controls how a material blends with the render target.
type BlendingMode uint8

const (
	BlendingOpaque BlendingMode = iota
	BlendingTransparent
	BlendingAdd
	BlendingMasked
	BlendingFade
	BlendingMultiply
	BlendingScreen
)

// TransparencyMode refines how transparent objects are rendered.
type TransparencyMode uint8

const (
	TransparencyDefault TransparencyMode = iota
	TransparencyTwoPassesOneSide
	TransparencyTwoPassesTwoSides
)

// ReflectionMode selects the reflection source for a material.
type ReflectionMode uint8

const (
	ReflectionDefault ReflectionMode = iota
	ReflectionScreenSpace
)

// RefractionMode selects where refracted rays are sampled from.
type RefractionMode uint8

const (
	RefractionModeNone RefractionMode = iota
	RefractionModeCubemap
	RefractionModeScreenSpace
)

// RefractionType models the geometry of the refracting volume.
type RefractionType uint8

const (
	RefractionTypeSolid RefractionType = iota
	RefractionTypeThin
)

// VertexDomain is the coordinate space of incoming vertices.
type VertexDomain uint8

const (
	VertexDomainObject VertexDomain = iota
	VertexDomainWorld
	VertexDomainView
	VertexDomainDevice
)

// CullingMode selects which triangle faces are discarded.
type CullingMode uint8

const (
	CullingNone CullingMode = iota
	CullingFront
	CullingBack
	CullingFrontAndBack
)

// FeatureLevel gates resource limits the material must respect.
type FeatureLevel uint8

const (
	FeatureLevel1 FeatureLevel = 1
	FeatureLevel2 FeatureLevel = 2
)

// VertexAttribute identifies one well-known vertex input.
type VertexAttribute uint8

const (
	AttributePosition VertexAttribute = iota
	AttributeTangents
	AttributeColor
	AttributeUV0
	AttributeUV1
	AttributeBoneIndices
	AttributeBoneWeights
	AttributeCustom0
	AttributeCustom1
	AttributeCustom2
	AttributeCustom3
)

// AttributeMask is a bitmask over VertexAttribute values.
type AttributeMask uint32

// Set returns the mask with the given attribute's bit set.
func (m AttributeMask) Set(a VertexAttribute) AttributeMask {
	return m | 1<<a
}

// Has reports whether the given attribute's bit is set.
func (m AttributeMask) Has(a VertexAttribute) bool {
	return m&(1<<a) != 0
}

// UniformType is the data type of one material parameter.
type UniformType uint8

const (
	UniformBool UniformType = iota
	UniformBool2
	UniformBool3
	UniformBool4
	UniformFloat
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformInt
	UniformInt2
	UniformInt3
	UniformInt4
	UniformUint
	UniformUint2
	UniformUint3
	UniformUint4
	UniformMat3
	UniformMat4
)

// Precision requests a precision qualifier for a parameter.
type Precision uint8

const (
	PrecisionDefault Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

// SamplerType is the shape of a texture sampler parameter.
type SamplerType uint8

const (
	Sampler2D SamplerType = iota
	Sampler2DArray
	SamplerCubemap
	SamplerExternal
	Sampler3D
	SamplerCubemapArray
)

// String returns the WGSL-ish name of the sampler type.
func (t SamplerType) String() string {
	switch t {
	case Sampler2D:
		return "sampler2d"
	case Sampler2DArray:
		return "sampler2dArray"
	case SamplerCubemap:
		return "samplerCubemap"
	case SamplerExternal:
		return "samplerExternal"
	case Sampler3D:
		return "sampler3d"
	case SamplerCubemapArray:
		return "samplerCubemapArray"
	}
	return "unknown"
}

// SamplerFormat is the component format sampled from a texture.
type SamplerFormat uint8

const (
	SamplerFormatInt SamplerFormat = iota
	SamplerFormatUint
	SamplerFormatFloat
	SamplerFormatShadow
)

// OutputTarget is the attachment class a shader output writes to.
type OutputTarget uint8

const (
	OutputColor OutputTarget = iota
	OutputDepth
)

// OutputType is the component count of a shader output.
type OutputType uint8

const (
	OutputFloat OutputType = iota
	OutputFloat2
	OutputFloat3
	OutputFloat4
)

// Output describes one user-declared shader output.
type Output struct {
	Name     string
	Target   OutputTarget
	Type     OutputType
	Location int
}

// Define is one preprocessor-style definition injected into generated
// shader source.
type Define struct {
	Name  string
	Value string
}
