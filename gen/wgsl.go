package gen

import (
	"fmt"

	"github.com/gogpu/matc/material"
)

// Engine resources live in group 0 at the fixed binding points recorded
// in the artifact's binding table; material samplers live in group 1,
// two WGSL bindings (texture, sampler) per logical slot.

func (w *writer) defines(defines []material.Define) {
	if len(defines) == 0 {
		return
	}
	for _, d := range defines {
		if d.Value == "" {
			w.linef("const %s = true;", d.Name)
			continue
		}
		w.linef("const %s = %s;", d.Name, d.Value)
	}
	w.blank()
}

func (w *writer) frameUniforms() {
	w.linef("struct %s {", material.BlockPerView)
	w.line("    viewFromWorld: mat4x4<f32>,")
	w.line("    clipFromWorld: mat4x4<f32>,")
	w.line("    clipFromView: mat4x4<f32>,")
	w.line("    cameraPosition: vec3<f32>,")
	w.line("    time: f32,")
	w.line("    fogColor: vec3<f32>,")
	w.line("    fogDensity: f32,")
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> frame: %s;", material.BindingPerView, material.BlockPerView)
	w.blank()
}

func (w *writer) objectUniforms() {
	w.linef("struct %s {", material.BlockPerRenderable)
	w.line("    worldFromObject: mat4x4<f32>,")
	w.line("    normalFromObject: mat4x4<f32>,")
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> object: %s;", material.BindingPerRenderable, material.BlockPerRenderable)
	w.blank()
}

func (w *writer) lightsUniforms() {
	w.linef("struct %s {", material.BlockLights)
	w.line("    direction: vec3<f32>,")
	w.line("    count: f32,")
	w.line("    colorIntensity: vec4<f32>,")
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> lights: %s;", material.BindingLights, material.BlockLights)
	w.blank()
}

func (w *writer) shadowUniforms() {
	w.linef("struct %s {", material.BlockShadows)
	w.line("    lightFromWorld: mat4x4<f32>,")
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> shadows: %s;", material.BindingShadows, material.BlockShadows)
	w.blank()
}

func (w *writer) bonesUniforms() {
	w.linef("struct %s {", material.BlockBones)
	w.line("    joints: array<mat4x4<f32>, 64>,")
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> bones: %s;", material.BindingBones, material.BlockBones)
	w.blank()
}

// materialUniforms emits the user parameter block. Materials without
// uniform parameters get no block; WGSL rejects empty structs.
func (w *writer) materialUniforms(block material.UniformBlock) {
	if len(block.Fields) == 0 {
		return
	}
	w.linef("struct %s {", block.Name)
	for _, field := range block.Fields {
		w.linef("    %s: %s,", field.Name, uniformTypeWGSL(field.Type, field.ArraySize))
	}
	w.line("};")
	w.linef("@group(0) @binding(%d) var<uniform> materialParams: %s;", material.BindingPerMaterial, block.Name)
	w.blank()
}

// samplers declares one texture/sampler pair per material sampler, using
// the slots assigned in info.SamplerBindings.
func (w *writer) samplers(info *material.Info) {
	if len(info.SamplerBlock.Samplers) == 0 {
		return
	}
	for i, s := range info.SamplerBlock.Samplers {
		slot := info.SamplerBindings[i].Binding
		w.linef("@group(1) @binding(%d) var %s_texture: %s;", int(slot)*2, s.Name, samplerTypeWGSL(s.Type))
		w.linef("@group(1) @binding(%d) var %s_sampler: sampler;", int(slot)*2+1, s.Name)
	}
	w.blank()
}

func (w *writer) vertexInput(info *material.Info, variant material.Variant) {
	w.line("struct VertexInput {")
	w.line("    @location(0) position: vec3<f32>,")
	if info.RequiredAttributes.Has(material.AttributeTangents) {
		w.line("    @location(1) normal: vec3<f32>,")
	}
	if info.RequiredAttributes.Has(material.AttributeColor) {
		w.line("    @location(2) color: vec4<f32>,")
	}
	if info.RequiredAttributes.Has(material.AttributeUV0) {
		w.line("    @location(3) uv0: vec2<f32>,")
	}
	if variant.Key&material.VariantSkinning != 0 {
		w.line("    @location(5) boneIndices: vec4<u32>,")
		w.line("    @location(6) boneWeights: vec4<f32>,")
	}
	w.line("};")
	w.blank()
}

func (w *writer) vertexOutput(info *material.Info, variant material.Variant) {
	w.line("struct VertexOutput {")
	w.line("    @builtin(position) position: vec4<f32>,")
	w.varyings(info)
	w.line("};")
	w.blank()
}

// fragmentInput mirrors VertexOutput minus the position builtin.
func (w *writer) fragmentInput(info *material.Info, variant material.Variant) {
	w.line("struct FragmentInput {")
	w.varyings(info)
	w.line("};")
	w.blank()
}

// varyings emits the fields shared by VertexOutput and FragmentInput.
// Custom variable slots occupy the locations after the fixed varyings.
func (w *writer) varyings(info *material.Info) {
	w.line("    @location(0) worldPosition: vec3<f32>,")
	if info.RequiredAttributes.Has(material.AttributeTangents) {
		w.line("    @location(1) normal: vec3<f32>,")
	}
	if info.RequiredAttributes.Has(material.AttributeUV0) {
		w.line("    @location(2) uv0: vec2<f32>,")
	}
	for i, name := range info.Variables {
		if name != "" {
			w.linef("    @location(%d) %s: vec4<f32>,", 3+i, name)
		}
	}
}

// materialInputs emits the MaterialInputs struct and its initializer.
// Only properties the material actually writes (plus baseColor, which the
// shading code always reads) become fields.
func (w *writer) materialInputs(info *material.Info) {
	props := info.Properties.Set(material.PropertyBaseColor)

	w.line("struct MaterialInputs {")
	for p := material.Property(0); p < material.PropertyCount; p++ {
		if props.Has(p) {
			w.linef("    %s: %s,", p.Name(), propertyTypeWGSL(p))
		}
	}
	w.line("};")
	w.blank()
	w.line("fn initMaterial() -> MaterialInputs {")
	w.line("    var m: MaterialInputs;")
	for p := material.Property(0); p < material.PropertyCount; p++ {
		if props.Has(p) {
			w.linef("    m.%s = %s;", p.Name(), propertyDefaultWGSL(p))
		}
	}
	w.line("    return m;")
	w.line("}")
	w.blank()
}

func uniformTypeWGSL(t material.UniformType, arraySize uint32) string {
	var base string
	switch t {
	case material.UniformBool, material.UniformUint:
		base = "u32"
	case material.UniformBool2, material.UniformUint2:
		base = "vec2<u32>"
	case material.UniformBool3, material.UniformUint3:
		base = "vec3<u32>"
	case material.UniformBool4, material.UniformUint4:
		base = "vec4<u32>"
	case material.UniformFloat:
		base = "f32"
	case material.UniformFloat2:
		base = "vec2<f32>"
	case material.UniformFloat3:
		base = "vec3<f32>"
	case material.UniformFloat4:
		base = "vec4<f32>"
	case material.UniformInt:
		base = "i32"
	case material.UniformInt2:
		base = "vec2<i32>"
	case material.UniformInt3:
		base = "vec3<i32>"
	case material.UniformInt4:
		base = "vec4<i32>"
	case material.UniformMat3:
		base = "mat3x3<f32>"
	case material.UniformMat4:
		base = "mat4x4<f32>"
	default:
		base = "f32"
	}
	if arraySize > 0 {
		return fmt.Sprintf("array<%s, %d>", base, arraySize)
	}
	return base
}

func samplerTypeWGSL(t material.SamplerType) string {
	switch t {
	case material.Sampler2DArray:
		return "texture_2d_array<f32>"
	case material.SamplerCubemap:
		return "texture_cube<f32>"
	case material.SamplerCubemapArray:
		return "texture_cube_array<f32>"
	case material.Sampler3D:
		return "texture_3d<f32>"
	default:
		// External samplers are presented to the shader as plain 2D
		// textures; the engine resolves the platform surface.
		return "texture_2d<f32>"
	}
}

func outputTypeWGSL(t material.OutputType) string {
	switch t {
	case material.OutputFloat:
		return "f32"
	case material.OutputFloat2:
		return "vec2<f32>"
	case material.OutputFloat3:
		return "vec3<f32>"
	default:
		return "vec4<f32>"
	}
}

func propertyTypeWGSL(p material.Property) string {
	switch p {
	case material.PropertyBaseColor, material.PropertyEmissive, material.PropertyPostLightingColor:
		return "vec4<f32>"
	case material.PropertyClearCoatNormal, material.PropertyAnisotropyDirection,
		material.PropertySubsurfaceColor, material.PropertySheenColor,
		material.PropertySpecularColor, material.PropertyNormal, material.PropertyAbsorption:
		return "vec3<f32>"
	default:
		return "f32"
	}
}

func propertyDefaultWGSL(p material.Property) string {
	switch p {
	case material.PropertyBaseColor:
		return "vec4<f32>(1.0, 1.0, 1.0, 1.0)"
	case material.PropertyEmissive, material.PropertyPostLightingColor:
		return "vec4<f32>(0.0, 0.0, 0.0, 0.0)"
	case material.PropertyNormal:
		return "vec3<f32>(0.0, 0.0, 1.0)"
	case material.PropertyAnisotropyDirection:
		return "vec3<f32>(1.0, 0.0, 0.0)"
	case material.PropertyClearCoatNormal, material.PropertySubsurfaceColor,
		material.PropertySheenColor, material.PropertySpecularColor, material.PropertyAbsorption:
		return "vec3<f32>(0.0, 0.0, 0.0)"
	case material.PropertyRoughness, material.PropertyAmbientOcclusion:
		return "1.0"
	case material.PropertyReflectance:
		return "0.5"
	case material.PropertyIOR:
		return "1.5"
	default:
		return "0.0"
	}
}
