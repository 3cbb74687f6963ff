package matc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/post"
)

// stubGenerator emits a distinct deterministic source per job without
// invoking the real code generator.
type stubGenerator struct{}

func (stubGenerator) CreateVertexProgram(model material.ShaderModel, api material.TargetAPI,
	lang material.TargetLanguage, info *material.Info, variant material.Variant,
	interpolation material.Interpolation, vertexDomain material.VertexDomain) (string, error) {
	return fmt.Sprintf("vertex\nmodel=%d\nvariant=%d", model, variant.Key), nil
}

func (stubGenerator) CreateFragmentProgram(model material.ShaderModel, api material.TargetAPI,
	lang material.TargetLanguage, info *material.Info, variant material.Variant,
	interpolation material.Interpolation) (string, error) {
	return fmt.Sprintf("fragment\nmodel=%d\nvariant=%d", model, variant.Key), nil
}

// stubProcessor produces target-shaped output from the source without
// running the cross-compiler. failKey, when non-zero, fails the matching
// variant to exercise error propagation.
type stubProcessor struct {
	failKey uint8
}

func (p stubProcessor) Process(source string, cfg post.Config) (post.Result, error) {
	if p.failKey != 0 && cfg.Variant.Key == p.failKey {
		return post.Result{}, fmt.Errorf("stub failure for variant %#02x", cfg.Variant.Key)
	}
	switch cfg.TargetAPI {
	case material.TargetOpenGL:
		return post.Result{GLSL: "glsl\n" + source}, nil
	case material.TargetVulkan:
		words := []uint32{0x07230203, uint32(len(source))}
		return post.Result{Spirv: words}, nil
	case material.TargetMetal:
		return post.Result{MSL: "msl\n" + source}, nil
	}
	return post.Result{}, fmt.Errorf("unexpected api %v", cfg.TargetAPI)
}

// trackingProcessor wraps stubProcessor and records how calls interleave:
// how many started and completed, and whether any call began while the
// first call was still running.
type trackingProcessor struct {
	stub      stubProcessor
	started   atomic.Int32
	completed atomic.Int32

	mu        sync.Mutex
	calls     int
	firstDone bool
	overlap   bool
}

func (p *trackingProcessor) Process(source string, cfg post.Config) (post.Result, error) {
	p.started.Add(1)
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	if !first && !p.firstDone {
		p.overlap = true
	}
	p.mu.Unlock()

	if first {
		// Widen the window in which a mis-scheduled sibling would overlap.
		time.Sleep(10 * time.Millisecond)
	}
	out, err := p.stub.Process(source, cfg)

	p.mu.Lock()
	if first {
		p.firstDone = true
	}
	p.mu.Unlock()
	p.completed.Add(1)
	return out, err
}

// parsedChunk is one decoded (tag, payload) record.
type parsedChunk struct {
	tag     chunk.Type
	payload []byte
}

func parseChunks(t *testing.T, data []byte) []parsedChunk {
	t.Helper()
	var out []parsedChunk
	for len(data) > 0 {
		if len(data) < 12 {
			t.Fatalf("truncated chunk header, %d bytes left", len(data))
		}
		tag := chunk.Type(binary.LittleEndian.Uint64(data))
		size := binary.LittleEndian.Uint32(data[8:])
		data = data[12:]
		if uint32(len(data)) < size {
			t.Fatalf("truncated payload for %#x", uint64(tag))
		}
		out = append(out, parsedChunk{tag: tag, payload: data[:size]})
		data = data[size:]
	}
	return out
}

func findChunk(chunks []parsedChunk, tag chunk.Type) ([]byte, bool) {
	for _, c := range chunks {
		if c.tag == tag {
			return c.payload, true
		}
	}
	return nil, false
}

func chunkIndex(chunks []parsedChunk, tag chunk.Type) int {
	for i, c := range chunks {
		if c.tag == tag {
			return i
		}
	}
	return -1
}

func stubBuilder() *MaterialBuilder {
	return NewMaterialBuilder().
		Name("test").
		Platform(material.PlatformMobile).
		TargetAPI(material.TargetOpenGL).
		WithGenerator(stubGenerator{}).
		WithPostProcessor(stubProcessor{})
}

func TestBuildRequiresContext(t *testing.T) {
	ctx := Acquire()
	ctx.Release()
	if stubBuilder().Build(ctx).IsValid() {
		t.Error("build succeeded with a released context")
	}
	if stubBuilder().Build(nil).IsValid() {
		t.Error("build succeeded with a nil context")
	}
}

func TestBuildUnlitOpenGL(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())

	if chunks[0].tag != chunk.MaterialVersion {
		t.Errorf("first chunk = %#x, want version", uint64(chunks[0].tag))
	}
	if got := binary.LittleEndian.Uint32(chunks[0].payload); got != MaterialVersion {
		t.Errorf("version = %d, want %d", got, MaterialVersion)
	}

	payload, ok := findChunk(chunks, chunk.MaterialGlsl)
	if !ok {
		t.Fatal("no GLSL chunk")
	}
	if _, ok := findChunk(chunks, chunk.DictionaryText); !ok {
		t.Fatal("no text dictionary chunk")
	}
	if _, ok := findChunk(chunks, chunk.MaterialSpirv); ok {
		t.Error("unexpected SPIR-V chunk for an OpenGL-only build")
	}

	// An unlit surface material compiles 4 vertex and 6 fragment
	// variants per permutation.
	count := binary.LittleEndian.Uint32(payload)
	if count != 10 {
		t.Errorf("GLSL entry count = %d, want 10", count)
	}
	assertEntriesSorted(t, payload)
}

// assertEntriesSorted walks a text chunk payload and checks the identity
// triples ascend in composite key order.
func assertEntriesSorted(t *testing.T, payload []byte) {
	t.Helper()
	count := binary.LittleEndian.Uint32(payload)
	data := payload[4:]
	prev := uint32(0)
	for i := uint32(0); i < count; i++ {
		key := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
		if i > 0 && key <= prev {
			t.Errorf("entry %d key %#06x not greater than %#06x", i, key, prev)
		}
		prev = key
		lines := binary.LittleEndian.Uint32(data[3:])
		data = data[7+2*lines:]
	}
}

func TestBuildAllAPIs(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().TargetAPI(material.TargetAll).Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())
	for _, tag := range []chunk.Type{
		chunk.MaterialGlsl, chunk.MaterialSpirv, chunk.MaterialMetal,
		chunk.DictionarySpirv, chunk.DictionaryText,
	} {
		if _, ok := findChunk(chunks, tag); !ok {
			t.Errorf("missing chunk %#x", uint64(tag))
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	a := stubBuilder().TargetAPI(material.TargetAll).Platform(material.PlatformAll).Build(ctx)
	b := stubBuilder().TargetAPI(material.TargetAll).Platform(material.PlatformAll).Build(ctx)
	if !a.IsValid() || !b.IsValid() {
		t.Fatal("build failed")
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical builds produced different artifacts")
	}
}

func TestBuildFailurePropagates(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().
		WithPostProcessor(stubProcessor{failKey: material.VariantFog}).
		Build(ctx)
	if pkg.IsValid() {
		t.Error("build succeeded despite a failing variant")
	}
}

func TestBuildFirstJobRunsAlone(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	tp := &trackingProcessor{}
	pkg := stubBuilder().
		TargetAPI(material.TargetAll).
		Platform(material.PlatformAll).
		WithPostProcessor(tp).
		Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	if tp.overlap {
		t.Error("a compilation started before the first one completed")
	}
	if started, completed := tp.started.Load(), tp.completed.Load(); started != completed {
		t.Errorf("started %d compilations, completed %d", started, completed)
	}
}

func TestBuildCancellationJoinsAllTasks(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	tp := &trackingProcessor{stub: stubProcessor{failKey: material.VariantFog}}
	pkg := stubBuilder().
		TargetAPI(material.TargetAll).
		Platform(material.PlatformAll).
		WithPostProcessor(tp).
		Build(ctx)
	if pkg.IsValid() {
		t.Error("build succeeded despite a failing variant")
	}
	// Build only returns after every launched task joins; nothing may
	// still be in flight, and nothing past the schedule may have run.
	started, completed := tp.started.Load(), tp.completed.Load()
	if started != completed {
		t.Errorf("started %d compilations, completed %d", started, completed)
	}
	// 6 permutations (2 models x 3 APIs) x 10 unlit variants.
	if started > 60 {
		t.Errorf("compilations = %d, exceeds the scheduled job count", started)
	}
}

func TestBuildChunkOrder(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().TargetAPI(material.TargetAll).Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())

	// Dictionaries must precede the chunks whose indices resolve against
	// them; the shader chunk sequence itself is part of the format.
	order := []chunk.Type{
		chunk.DictionaryText, chunk.MaterialGlsl,
		chunk.DictionarySpirv, chunk.MaterialSpirv,
		chunk.MaterialMetal,
	}
	prev := -1
	for _, tag := range order {
		idx := chunkIndex(chunks, tag)
		if idx < 0 {
			t.Fatalf("missing chunk %#x", uint64(tag))
		}
		if idx <= prev {
			t.Errorf("chunk %#x at position %d, want after %d", uint64(tag), idx, prev)
		}
		prev = idx
	}
}

func TestBuildVulkanOnlyTextDictionary(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := NewMaterialBuilder().
		Name("test").
		Platform(material.PlatformMobile).
		TargetAPI(material.TargetVulkan).
		WithGenerator(stubGenerator{}).
		WithPostProcessor(stubProcessor{}).
		Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())
	payload, ok := findChunk(chunks, chunk.DictionaryText)
	if !ok {
		t.Fatal("text dictionary chunk missing from a Vulkan-only artifact")
	}
	if count := binary.LittleEndian.Uint32(payload); count != 0 {
		t.Errorf("text dictionary has %d lines, want 0", count)
	}
	if _, ok := findChunk(chunks, chunk.MaterialGlsl); ok {
		t.Error("GLSL chunk present in a Vulkan-only artifact")
	}
	if _, ok := findChunk(chunks, chunk.MaterialMetal); ok {
		t.Error("Metal chunk present in a Vulkan-only artifact")
	}
}

func TestBuildConfigErrorFails(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	b := stubBuilder().
		Output(material.OutputDepth, material.OutputFloat4, "bad", -1)
	if b.Build(ctx).IsValid() {
		t.Error("build succeeded despite a configuration error")
	}
}

func TestBuildCustomSurfaceShadingRequiresLit(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().CustomSurfaceShading(true).Build(ctx)
	if pkg.IsValid() {
		t.Error("custom surface shading accepted on an unlit material")
	}

	pkg = stubBuilder().Shading(material.ShadingLit).CustomSurfaceShading(true).Build(ctx)
	if !pkg.IsValid() {
		t.Error("custom surface shading rejected on a lit material")
	}
}

func TestBuildSamplerBudgetEnforced(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	b := stubBuilder()
	for i := 0; i < 10; i++ {
		b.Sampler(material.Sampler2D, fmt.Sprintf("s%d", i))
	}
	if b.Build(ctx).IsValid() {
		t.Error("feature level 1 sampler budget not enforced")
	}
}

func TestBuildDiscoversProperties(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := stubBuilder().
		Material("material.baseColor = vec4<f32>(1.0);\nmaterial.emissive = glow;").
		Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())
	payload, ok := findChunk(chunks, chunk.MaterialProperties)
	if !ok {
		t.Fatal("no properties chunk")
	}
	mask := material.PropertyMask(binary.LittleEndian.Uint64(payload))
	if !mask.Has(material.PropertyBaseColor) || !mask.Has(material.PropertyEmissive) {
		t.Errorf("properties = %#x", uint64(mask))
	}
	if mask.Has(material.PropertyRoughness) {
		t.Error("unassigned property discovered")
	}
}

func TestBuildPostProcessDefaultOutput(t *testing.T) {
	ctx := Acquire()
	defer ctx.Release()

	pkg := NewMaterialBuilder().
		Name("pp").
		MaterialDomain(material.DomainPostProcess).
		Platform(material.PlatformMobile).
		TargetAPI(material.TargetOpenGL).
		WithGenerator(stubGenerator{}).
		WithPostProcessor(stubProcessor{}).
		Build(ctx)
	if !pkg.IsValid() {
		t.Fatal("post-process build failed")
	}
	chunks := parseChunks(t, pkg.Bytes())
	payload, ok := findChunk(chunks, chunk.MaterialGlsl)
	if !ok {
		t.Fatal("no GLSL chunk")
	}
	// Post-process materials compile exactly 4 variants.
	if count := binary.LittleEndian.Uint32(payload); count != 4 {
		t.Errorf("entry count = %d, want 4", count)
	}
	// Render state and the property mask are written for every domain.
	for _, tag := range []chunk.Type{
		chunk.MaterialBlendingMode, chunk.MaterialDepthWrite,
		chunk.MaterialCullingMode, chunk.MaterialProperties,
	} {
		if _, ok := findChunk(chunks, tag); !ok {
			t.Errorf("missing chunk %#x in post-process artifact", uint64(tag))
		}
	}
	// Surface-only scalars stay out.
	for _, tag := range []chunk.Type{
		chunk.MaterialShading, chunk.MaterialVertexDomain, chunk.MaterialRequiredAttributes,
	} {
		if _, ok := findChunk(chunks, tag); ok {
			t.Errorf("surface chunk %#x present in post-process artifact", uint64(tag))
		}
	}
}

func TestContextReleaseIdempotent(t *testing.T) {
	before := activeClients.Load()
	ctx := Acquire()
	ctx.Release()
	ctx.Release()
	if got := activeClients.Load(); got != before {
		t.Errorf("active clients = %d, want %d", got, before)
	}
}
