// Package gen generates WGSL shader source for material variants. The
// output is consumed by the post package, which cross-compiles it to the
// representation each target API needs.
//
// A generated program is self-contained: engine uniform blocks, the
// material's parameter block and samplers, variant-gated varyings, and
// the user's shader snippet spliced into the entry point. Only features
// the variant key enables are emitted, so every variant compiles to the
// smallest program that serves it.
package gen

import (
	"fmt"
	"strings"

	"github.com/gogpu/matc/material"
)

// Entry point names used by every generated program. The post-processor
// relies on one entry point per program, so each stage is generated as its
// own module.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Generator produces WGSL programs for one material. It is immutable
// after construction and safe for concurrent use by parallel compilation
// tasks.
type Generator struct {
	domain       material.Domain
	vertexCode   string
	fragmentCode string
}

// New creates a generator for a material's shader snippets. Either
// snippet may be empty; vertexCode extends the vertex stage, fragmentCode
// is the material function body run in the fragment stage.
func New(domain material.Domain, vertexCode, fragmentCode string) *Generator {
	return &Generator{
		domain:       domain,
		vertexCode:   vertexCode,
		fragmentCode: fragmentCode,
	}
}

// CreateVertexProgram generates the vertex stage for one permutation and
// variant.
func (g *Generator) CreateVertexProgram(model material.ShaderModel, api material.TargetAPI,
	lang material.TargetLanguage, info *material.Info, variant material.Variant,
	interpolation material.Interpolation, vertexDomain material.VertexDomain) (string, error) {

	if g.domain == material.DomainPostProcess {
		return g.postProcessVertexProgram(info, variant)
	}
	return g.surfaceVertexProgram(info, variant, vertexDomain)
}

// CreateFragmentProgram generates the fragment stage for one permutation
// and variant.
func (g *Generator) CreateFragmentProgram(model material.ShaderModel, api material.TargetAPI,
	lang material.TargetLanguage, info *material.Info, variant material.Variant,
	interpolation material.Interpolation) (string, error) {

	if g.domain == material.DomainPostProcess {
		return g.postProcessFragmentProgram(info, variant)
	}
	return g.surfaceFragmentProgram(info, variant)
}

func (g *Generator) surfaceVertexProgram(info *material.Info, variant material.Variant,
	vertexDomain material.VertexDomain) (string, error) {

	var w writer
	w.defines(info.Defines)
	w.frameUniforms()
	w.objectUniforms()
	if variant.Key&material.VariantSkinning != 0 {
		w.bonesUniforms()
	}
	w.materialUniforms(info.UniformBlock)

	w.vertexInput(info, variant)
	w.vertexOutput(info, variant)

	w.line("@vertex")
	w.linef("fn %s(in: VertexInput) -> VertexOutput {", VertexEntryPoint)
	w.line("    var out: VertexOutput;")
	if variant.Key&material.VariantSkinning != 0 {
		w.line("    let w = in.boneWeights;")
		w.line("    let skinned =")
		w.line("        bones.joints[in.boneIndices.x] * w.x +")
		w.line("        bones.joints[in.boneIndices.y] * w.y +")
		w.line("        bones.joints[in.boneIndices.z] * w.z +")
		w.line("        bones.joints[in.boneIndices.w] * w.w;")
		w.line("    let localPosition = skinned * vec4<f32>(in.position, 1.0);")
	} else {
		w.line("    let localPosition = vec4<f32>(in.position, 1.0);")
	}

	switch vertexDomain {
	case material.VertexDomainDevice:
		w.line("    out.position = localPosition;")
		w.line("    out.worldPosition = localPosition.xyz;")
	case material.VertexDomainWorld:
		w.line("    out.worldPosition = localPosition.xyz;")
		w.line("    out.position = frame.clipFromWorld * localPosition;")
	case material.VertexDomainView:
		w.line("    out.worldPosition = localPosition.xyz;")
		w.line("    out.position = frame.clipFromView * localPosition;")
	default: // VertexDomainObject
		w.line("    let worldPosition = object.worldFromObject * localPosition;")
		w.line("    out.worldPosition = worldPosition.xyz;")
		w.line("    out.position = frame.clipFromWorld * worldPosition;")
	}

	if info.RequiredAttributes.Has(material.AttributeTangents) {
		w.line("    out.normal = normalize((object.normalFromObject * vec4<f32>(in.normal, 0.0)).xyz);")
	}
	if info.RequiredAttributes.Has(material.AttributeUV0) {
		if info.FlipUV {
			w.line("    out.uv0 = vec2<f32>(in.uv0.x, 1.0 - in.uv0.y);")
		} else {
			w.line("    out.uv0 = in.uv0;")
		}
	}
	if g.vertexCode != "" {
		w.splice(g.vertexCode)
	}
	w.line("    return out;")
	w.line("}")
	return w.String(), nil
}

func (g *Generator) surfaceFragmentProgram(info *material.Info, variant material.Variant) (string, error) {
	depthOnly := variant.Key&material.VariantDepth != 0
	lighting := variant.Key & (material.VariantDirectionalLighting |
		material.VariantDynamicLighting | material.VariantShadowReceiver)

	var w writer
	w.defines(info.Defines)
	w.frameUniforms()
	if !depthOnly && lighting != 0 {
		w.lightsUniforms()
	}
	if !depthOnly && variant.Key&material.VariantShadowReceiver != 0 {
		w.shadowUniforms()
	}
	w.materialUniforms(info.UniformBlock)
	if !depthOnly {
		w.samplers(info)
	}

	w.fragmentInput(info, variant)

	if depthOnly {
		w.line("@fragment")
		w.linef("fn %s(in: FragmentInput) -> @location(0) vec4<f32> {", FragmentEntryPoint)
		w.line("    return vec4<f32>(0.0, 0.0, 0.0, 1.0);")
		w.line("}")
		return w.String(), nil
	}

	w.materialInputs(info)

	w.line("@fragment")
	w.linef("fn %s(in: FragmentInput) -> @location(0) vec4<f32> {", FragmentEntryPoint)
	w.line("    var material = initMaterial();")
	if g.fragmentCode != "" {
		w.splice(g.fragmentCode)
	}
	w.line("    var color = material.baseColor;")
	if info.IsLit && variant.Key&material.VariantDirectionalLighting != 0 {
		w.line("    let n = normalize(in.normal);")
		w.line("    let ndotl = max(dot(n, -lights.direction), 0.0);")
		w.line("    let lit = lights.colorIntensity.rgb * (lights.colorIntensity.a * ndotl);")
		w.line("    color = vec4<f32>(color.rgb * lit, color.a);")
	}
	if variant.Key&material.VariantShadowReceiver != 0 {
		w.line("    let shadowPosition = shadows.lightFromWorld * vec4<f32>(in.worldPosition, 1.0);")
		w.line("    color = vec4<f32>(color.rgb * clamp(shadowPosition.w, 0.0, 1.0), color.a);")
	}
	if info.Properties.Has(material.PropertyEmissive) {
		w.line("    color = vec4<f32>(color.rgb + material.emissive.rgb, color.a);")
	}
	if variant.Key&material.VariantFog != 0 {
		w.line("    let fogDistance = length(in.worldPosition - frame.cameraPosition);")
		w.line("    let fogFactor = clamp(1.0 - exp(-frame.fogDensity * fogDistance), 0.0, 1.0);")
		w.line("    color = vec4<f32>(mix(color.rgb, frame.fogColor, fogFactor), color.a);")
	}
	w.line("    return color;")
	w.line("}")
	return w.String(), nil
}

func (g *Generator) postProcessVertexProgram(info *material.Info, variant material.Variant) (string, error) {
	var w writer
	w.defines(info.Defines)
	w.frameUniforms()
	w.materialUniforms(info.UniformBlock)

	w.line("struct VertexOutput {")
	w.line("    @builtin(position) position: vec4<f32>,")
	w.line("    @location(0) uv: vec2<f32>,")
	w.line("};")
	w.blank()
	w.line("@vertex")
	w.linef("fn %s(@builtin(vertex_index) index: u32) -> VertexOutput {", VertexEntryPoint)
	w.line("    var out: VertexOutput;")
	// Fullscreen triangle covering the viewport.
	w.line("    let x = f32(i32(index) / 2) * 4.0 - 1.0;")
	w.line("    let y = f32(i32(index) % 2) * 4.0 - 1.0;")
	w.line("    out.position = vec4<f32>(x, y, 0.0, 1.0);")
	w.line("    out.uv = vec2<f32>((x + 1.0) * 0.5, (y + 1.0) * 0.5);")
	if g.vertexCode != "" {
		w.splice(g.vertexCode)
	}
	w.line("    return out;")
	w.line("}")
	return w.String(), nil
}

func (g *Generator) postProcessFragmentProgram(info *material.Info, variant material.Variant) (string, error) {
	var w writer
	w.defines(info.Defines)
	w.frameUniforms()
	w.materialUniforms(info.UniformBlock)
	w.samplers(info)

	colorOutputs := 0
	for _, out := range info.Outputs {
		if out.Target == material.OutputColor {
			colorOutputs++
		}
	}
	if colorOutputs == 0 {
		return "", fmt.Errorf("gen: post-process material %q has no color output", info.Name)
	}

	w.line("struct PostProcessInputs {")
	for _, out := range info.Outputs {
		if out.Target == material.OutputColor {
			w.linef("    %s: %s,", out.Name, outputTypeWGSL(out.Type))
		}
	}
	w.line("};")
	w.blank()
	w.line("struct FragmentOutput {")
	for _, out := range info.Outputs {
		if out.Target == material.OutputColor {
			w.linef("    @location(%d) %s: %s,", out.Location, out.Name, outputTypeWGSL(out.Type))
		}
	}
	w.line("};")
	w.blank()
	w.line("@fragment")
	w.linef("fn %s(@location(0) uv: vec2<f32>) -> FragmentOutput {", FragmentEntryPoint)
	w.line("    var postProcess: PostProcessInputs;")
	if g.fragmentCode != "" {
		w.splice(g.fragmentCode)
	}
	w.line("    var out: FragmentOutput;")
	for _, out := range info.Outputs {
		if out.Target == material.OutputColor {
			w.linef("    out.%s = postProcess.%s;", out.Name, out.Name)
		}
	}
	w.line("    return out;")
	w.line("}")
	return w.String(), nil
}

// writer accumulates WGSL source line by line.
type writer struct {
	b strings.Builder
}

func (w *writer) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) blank() { w.b.WriteByte('\n') }

// splice inserts a user code snippet, indented one level.
func (w *writer) splice(code string) {
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		if line == "" {
			w.blank()
			continue
		}
		w.line("    " + line)
	}
}

func (w *writer) String() string { return w.b.String() }
