package matc

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/gen"
	"github.com/gogpu/matc/internal/shadercache"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/post"
)

// compileJob is one (permutation, variant) unit of shader work.
type compileJob struct {
	perm    material.Permutation
	variant material.Variant
}

// buildResults accumulates compiled shaders across workers. Workers take
// the single mutex for every append; contention is negligible next to the
// cost of a compilation.
type buildResults struct {
	mu    sync.Mutex
	glsl  []chunk.TextEntry
	spirv []chunk.SpirvEntry
	metal []chunk.TextEntry
}

// Build compiles the material into its binary artifact. It requires a
// live toolchain context; on any failure it logs the cause and returns
// the invalid package sentinel rather than a partial artifact.
func (b *MaterialBuilder) Build(ctx *Context) chunk.Package {
	log := Logger()
	if !ctx.alive() {
		log.Error("build refused", "material", b.name, "err", ErrNotAcquired)
		return chunk.InvalidPackage()
	}
	if b.err != nil {
		log.Error("invalid material configuration", "material", b.name, "err", b.err)
		return chunk.InvalidPackage()
	}
	if b.customSurfaceShading && !b.isLit() {
		log.Error("invalid material configuration", "material", b.name,
			"err", "custom surface shading requires a lit shading model")
		return chunk.InvalidPackage()
	}

	// Post-process materials with no declared outputs write a single
	// vec4 color.
	if b.domain == material.DomainPostProcess && len(b.outputs) == 0 {
		b.Output(material.OutputColor, material.OutputFloat4, "color", 0)
	}

	info := b.prepareToBuild()
	if err := checkMaterialLevelFeatures(info); err != nil {
		log.Error("material validation failed", "material", b.name, "err", err)
		return chunk.InvalidPackage()
	}

	info.Properties = material.DiscoverProperties(b.fragmentCode, info.Properties)

	models := shaderModelsFor(b.platform)
	perms, effectiveOpt := planPermutations(models, b.targetAPI, b.optimization, b.framebufferFetch)

	var variants []material.Variant
	if b.domain == material.DomainPostProcess {
		variants = material.PostProcessVariants()
	} else {
		variants = material.SurfaceVariants(b.variantFilter, b.isLit(), b.shadowMultiplier)
	}

	results, err := b.generateShaders(info, perms, variants, effectiveOpt, log)
	if err != nil {
		log.Error("shader generation failed", "material", b.name, "err", err)
		return chunk.InvalidPackage()
	}

	container := &chunk.Container{}
	b.writeCommonChunks(container, info, models)
	b.writeShaderChunks(container, results)

	data := container.Flatten()
	log.Info("material compiled",
		"material", b.name,
		"permutations", len(perms),
		"variants", len(variants),
		"chunks", container.Len(),
		"bytes", len(data))
	return chunk.NewPackage(data)
}

// prepareToBuild assembles the immutable material description every
// compilation task shares.
func (b *MaterialBuilder) prepareToBuild() *material.Info {
	info := &material.Info{
		Name:   b.name,
		Domain: b.domain,

		IsLit:                    b.isLit(),
		Shading:                  b.shading,
		BlendingMode:             b.blending,
		PostLightingBlendingMode: b.postLightingBlending,
		HasDoubleSidedCapability: b.doubleSidedCapability,
		HasShadowMultiplier:      b.shadowMultiplier,
		HasTransparentShadow:     b.transparentShadow,
		HasCustomSurfaceShading:  b.customSurfaceShading,
		SpecularAntiAliasing:     b.specularAA,
		ClearCoatIorChange:       b.clearCoatIorChange,
		FlipUV:                   b.flipUV,
		MultiBounceAO:            b.multiBounceAO,
		SpecularAO:               b.specularAO,
		Instanced:                b.instanced,

		RefractionMode: b.refractionMode,
		RefractionType: b.refractionType,
		ReflectionMode: b.reflectionMode,

		FeatureLevel: b.featureLevel,
		Outputs:      b.outputs,
		Defines:      b.defines,
	}

	info.UniformBlock.Name = "MaterialParams"
	subpassBinding := uint8(0)
	for _, p := range b.params {
		switch p.kind {
		case paramUniform:
			info.UniformBlock.Fields = append(info.UniformBlock.Fields, material.UniformField{
				Name: p.name, Type: p.uniformType, ArraySize: p.arraySize, Precision: p.precision,
			})
		case paramSampler:
			info.SamplerBlock.Samplers = append(info.SamplerBlock.Samplers, material.SamplerInfo{
				Name: p.name, Type: p.samplerType, Format: p.format, Precision: p.precision,
			})
		case paramSubpass:
			info.Subpass = material.Subpass{
				Valid:     true,
				Block:     "MaterialSubpass",
				Name:      p.name,
				Format:    p.format,
				Precision: p.precision,
				Binding:   subpassBinding,
			}
			subpassBinding++
		}
	}
	info.SamplerBlock.Name = "MaterialSamplers"
	info.SamplerBindings = material.BindSamplers(b.domain, info.SamplerBlock)
	info.HasExternalSamplers = info.SamplerBlock.HasExternalSampler()

	info.Variables = b.variables

	attrs := b.requiredAttributes.Set(material.AttributePosition)
	if b.isLit() && b.domain == material.DomainSurface {
		attrs = attrs.Set(material.AttributeTangents)
	}
	info.RequiredAttributes = attrs

	return info
}

// generateShaders fans the (permutation, variant) matrix out across
// workers. The first job runs alone before any concurrency starts, so the
// toolchain's lazy one-time initialization never races. Workers bail out
// early once any job fails; the first error wins and is returned.
func (b *MaterialBuilder) generateShaders(info *material.Info, perms []material.Permutation,
	variants []material.Variant, opt material.Optimization,
	log *slog.Logger) (*buildResults, error) {

	generator := b.generator
	if generator == nil {
		generator = gen.New(b.domain, b.vertexCode, b.fragmentCode)
	}
	processor := b.postProcessor
	if processor == nil {
		processor = post.New(post.Options{
			Optimization:      opt,
			GenerateDebugInfo: b.generateDebugInfo,
			PrintShaders:      b.printShaders,
			Logger:            Logger(),
		})
	}

	jobs := make([]compileJob, 0, len(perms)*len(variants))
	for _, perm := range perms {
		for _, v := range variants {
			jobs = append(jobs, compileJob{perm: perm, variant: v})
		}
	}
	if len(jobs) == 0 {
		return &buildResults{}, nil
	}

	results := &buildResults{}
	memo := shadercache.New[post.Result]()
	var canceled atomic.Bool

	run := func(job compileJob) error {
		if canceled.Load() {
			return nil
		}
		if err := b.compileOne(generator, processor, memo, info, job, results); err != nil {
			canceled.Store(true)
			return fmt.Errorf("model %s api %s variant %#02x stage %s: %w",
				job.perm.Model, job.perm.API, job.variant.Key, job.variant.Stage, err)
		}
		return nil
	}

	// First job runs isolated.
	if err := run(jobs[0]); err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, job := range jobs[1:] {
		g.Go(func() error { return run(job) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits, misses := memo.Stats()
	log.Debug("shaders compiled",
		"jobs", len(jobs),
		"glsl", len(results.glsl),
		"spirv", len(results.spirv),
		"metal", len(results.metal),
		"cacheHits", hits,
		"cacheMisses", misses)

	// Workers append in completion order; the artifact wants the
	// composite key order.
	sort.Slice(results.glsl, func(i, j int) bool {
		return results.glsl[i].SortKey() < results.glsl[j].SortKey()
	})
	sort.Slice(results.spirv, func(i, j int) bool {
		return results.spirv[i].SortKey() < results.spirv[j].SortKey()
	})
	sort.Slice(results.metal, func(i, j int) bool {
		return results.metal[i].SortKey() < results.metal[j].SortKey()
	})
	return results, nil
}

// compileOne generates and post-processes a single shader, then appends
// the outputs to the shared result lists. Compilation is memoized on the
// source and target: variants that generate identical source reuse the
// first result.
func (b *MaterialBuilder) compileOne(generator ShaderGenerator, processor PostProcessor,
	memo *shadercache.Cache[post.Result], info *material.Info, job compileJob,
	results *buildResults) error {

	var source string
	var err error
	if job.variant.Stage == material.StageVertex {
		source, err = generator.CreateVertexProgram(job.perm.Model, job.perm.API,
			job.perm.Language, info, job.variant, b.interpolation, b.vertexDomain)
	} else {
		source, err = generator.CreateFragmentProgram(job.perm.Model, job.perm.API,
			job.perm.Language, info, job.variant, b.interpolation)
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	key := compileKey(source, job.perm)
	out, cached := memo.Get(key)
	if !cached {
		out, err = processor.Process(source, post.Config{
			MaterialName:        b.name,
			Variant:             job.variant,
			TargetAPI:           job.perm.API,
			TargetLanguage:      job.perm.Language,
			Stage:               job.variant.Stage,
			ShaderModel:         job.perm.Model,
			Domain:              b.domain,
			HasFramebufferFetch: b.framebufferFetch,
		})
		if err != nil {
			Logger().Error("shader compilation failed",
				"material", b.name,
				"model", job.perm.Model.String(),
				"api", job.perm.API.String(),
				"variant", job.variant.Key,
				"stage", job.variant.Stage.String(),
				"err", err,
				"source", source)
			return err
		}
		memo.Set(key, out)
	}

	results.mu.Lock()
	defer results.mu.Unlock()
	switch job.perm.API {
	case material.TargetOpenGL:
		results.glsl = append(results.glsl, chunk.TextEntry{
			ShaderModel: uint8(job.perm.Model),
			VariantKey:  job.variant.Key,
			Stage:       uint8(job.variant.Stage),
			Shader:      out.GLSL,
		})
	case material.TargetVulkan:
		results.spirv = append(results.spirv, chunk.SpirvEntry{
			ShaderModel: uint8(job.perm.Model),
			VariantKey:  job.variant.Key,
			Stage:       uint8(job.variant.Stage),
			Spirv:       out.Spirv,
		})
	case material.TargetMetal:
		results.metal = append(results.metal, chunk.TextEntry{
			ShaderModel: uint8(job.perm.Model),
			VariantKey:  job.variant.Key,
			Stage:       uint8(job.variant.Stage),
			Shader:      out.MSL,
		})
	}
	return nil
}

// compileKey digests a generated source and its target identity into a
// memo cache key. The variant is deliberately absent: identical source
// compiled for the same target yields the same result regardless of
// which variant produced it.
func compileKey(source string, perm material.Permutation) shadercache.Key {
	h := blake3.New()
	h.Write([]byte(source))
	h.Write([]byte{uint8(perm.Model), uint8(perm.API), uint8(perm.Language)})
	var key shadercache.Key
	h.Sum(key[:0])
	return key
}

// writeCommonChunks emits the material description chunks, in the fixed
// order engine-side loaders rely on.
func (b *MaterialBuilder) writeCommonChunks(c *chunk.Container, info *material.Info,
	models material.ShaderModelMask) {

	c.AddUint32(chunk.MaterialVersion, MaterialVersion)
	c.AddUint8(chunk.MaterialFeatureLevel, uint8(info.FeatureLevel))
	c.AddString(chunk.MaterialName, info.Name)
	c.AddUint32(chunk.MaterialShaderModels, uint32(models))
	c.AddUint8(chunk.MaterialDomain, uint8(info.Domain))

	c.Add(chunk.MaterialUniformBindings,
		chunk.NewBlockBindingsChunk(material.UniformBlockBindings(info.UniformBlock.Name)))
	c.Add(chunk.MaterialSamplerBindings, chunk.NewSamplerBindingsChunk(info.SamplerBindings))
	c.Add(chunk.MaterialUniformBlock, chunk.NewUniformBlockChunk(info.UniformBlock))
	c.Add(chunk.MaterialSamplerBlock, chunk.NewSamplerBlockChunk(info.SamplerBlock))
	c.Add(chunk.MaterialSubpassBlock, chunk.NewSubpassBlockChunk(info.Subpass))

	c.AddBool(chunk.MaterialDoubleSidedSet, b.doubleSidedCapability)
	c.AddBool(chunk.MaterialDoubleSided, b.doubleSided)
	c.AddUint8(chunk.MaterialBlendingMode, uint8(b.blending))
	c.AddUint8(chunk.MaterialTransparencyMode, uint8(b.transparencyMode))
	c.AddUint8(chunk.MaterialReflectionMode, uint8(b.reflectionMode))

	c.AddBool(chunk.MaterialColorWrite, b.colorWrite)
	c.AddBool(chunk.MaterialDepthWriteSet, b.depthWriteSet)
	depthWrite := b.depthWrite
	if !b.depthWriteSet {
		// Translucent blending disables depth writes unless the material
		// said otherwise.
		switch b.blending {
		case material.BlendingTransparent, material.BlendingFade, material.BlendingAdd,
			material.BlendingScreen, material.BlendingMultiply:
			depthWrite = false
		}
	}
	c.AddBool(chunk.MaterialDepthWrite, depthWrite)
	c.AddBool(chunk.MaterialDepthTest, b.depthTest)
	c.AddBool(chunk.MaterialInstanced, b.instanced)
	c.AddUint8(chunk.MaterialCullingMode, uint8(b.culling))

	c.AddUint64(chunk.MaterialProperties, uint64(info.Properties))

	if b.domain == material.DomainSurface {
		b.writeSurfaceChunks(c, info)
	}
}

// writeSurfaceChunks emits the scalar chunks that only apply to surface
// materials.
func (b *MaterialBuilder) writeSurfaceChunks(c *chunk.Container, info *material.Info) {
	if b.blending == material.BlendingMasked {
		c.AddFloat32(chunk.MaterialMaskThreshold, b.maskThreshold)
	}
	c.AddUint8(chunk.MaterialShading, uint8(b.shading))
	if !b.isLit() {
		c.AddBool(chunk.MaterialShadowMultiplier, b.shadowMultiplier)
	}
	c.AddUint8(chunk.MaterialRefractionMode, uint8(b.refractionMode))
	c.AddUint8(chunk.MaterialRefractionType, uint8(b.refractionType))
	c.AddBool(chunk.MaterialClearCoatIorChange, b.clearCoatIorChange)
	c.AddUint32(chunk.MaterialRequiredAttributes, uint32(info.RequiredAttributes))

	c.AddBool(chunk.MaterialSpecularAA, b.specularAA)
	if b.specularAA {
		c.AddFloat32(chunk.MaterialSpecularAAVariance, b.specularAAVariance)
		c.AddFloat32(chunk.MaterialSpecularAAThreshold, b.specularAAThreshold)
	}
	c.AddUint8(chunk.MaterialVertexDomain, uint8(b.vertexDomain))
	c.AddUint8(chunk.MaterialInterpolation, uint8(b.interpolation))
	c.AddBool(chunk.MaterialHasCustomDepth, b.hasCustomDepthShader())
}

// writeShaderChunks emits the shader payload chunks: text dictionary,
// GLSL entries, SPIR-V dictionary, SPIR-V entries, MSL entries. GLSL and
// MSL share the one line dictionary, which is always written (empty when
// no text targets were built) so the layout stays fixed; entry chunks
// appear only for languages that have entries.
func (b *MaterialBuilder) writeShaderChunks(c *chunk.Container, results *buildResults) {
	dict := &chunk.LineDictionary{}
	for _, e := range results.glsl {
		dict.AddText(e.Shader)
	}
	for _, e := range results.metal {
		dict.AddText(e.Shader)
	}
	c.Add(chunk.DictionaryText, chunk.NewTextDictionaryChunk(dict))
	if len(results.glsl) > 0 {
		c.Add(chunk.MaterialGlsl, chunk.NewTextChunk(results.glsl, dict))
	}

	if len(results.spirv) > 0 {
		blobs := &chunk.BlobDictionary{}
		for i := range results.spirv {
			results.spirv[i].DictionaryIndex = blobs.AddBlob(results.spirv[i].Spirv)
		}
		compress := !b.generateDebugInfo
		c.Add(chunk.DictionarySpirv, chunk.NewSpirvDictionaryChunk(blobs, compress))
		c.Add(chunk.MaterialSpirv, chunk.NewSpirvChunk(results.spirv))
	}

	if len(results.metal) > 0 {
		c.Add(chunk.MaterialMetal, chunk.NewTextChunk(results.metal, dict))
	}
}
