package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/gogpu/matc"
	"github.com/gogpu/matc/material"
)

// definition is the on-disk material description. The format is JSON
// with comments and trailing commas permitted; shader snippets may be a
// single string or an array of lines.
type definition struct {
	Material settings `json:"material"`
	Vertex   code     `json:"vertex"`
	Fragment code     `json:"fragment"`
}

type settings struct {
	Name          string      `json:"name"`
	Shading       string      `json:"shadingModel"`
	Domain        string      `json:"domain"`
	Interpolation string      `json:"interpolation"`
	VertexDomain  string      `json:"vertexDomain"`
	Blending      string      `json:"blending"`
	PostLighting  string      `json:"postLightingBlending"`
	Transparency  string      `json:"transparencyMode"`
	Culling       string      `json:"culling"`
	Parameters    []paramDef  `json:"parameters"`
	Requires      []string    `json:"requires"`
	Variables     []string    `json:"variables"`
	Outputs       []outputDef `json:"outputs"`
	Defines       []defineDef `json:"defines"`

	ColorWrite           *bool    `json:"colorWrite"`
	DepthWrite           *bool    `json:"depthWrite"`
	DepthCulling         *bool    `json:"depthCulling"`
	Instanced            bool     `json:"instanced"`
	DoubleSided          *bool    `json:"doubleSided"`
	MaskThreshold        *float32 `json:"maskThreshold"`
	ShadowMultiplier     bool     `json:"shadowMultiplier"`
	TransparentShadow    bool     `json:"transparentShadow"`
	SpecularAA           bool     `json:"specularAntiAliasing"`
	SpecularAAVariance   *float32 `json:"specularAntiAliasingVariance"`
	SpecularAAThreshold  *float32 `json:"specularAntiAliasingThreshold"`
	ClearCoatIorChange   *bool    `json:"clearCoatIorChange"`
	FlipUV               *bool    `json:"flipUV"`
	CustomSurfaceShading bool     `json:"customSurfaceShading"`
	MultiBounceAO        bool     `json:"multiBounceAmbientOcclusion"`
	SpecularAO           bool     `json:"specularAmbientOcclusion"`
	FramebufferFetch     bool     `json:"framebufferFetch"`
	FeatureLevel         int      `json:"featureLevel"`
	Refraction           string   `json:"refractionMode"`
	RefractionType       string   `json:"refractionType"`
	Reflection           string   `json:"reflectionMode"`
	VariantFilter        []string `json:"variantFilter"`
}

type paramDef struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	ArraySize int    `json:"arraySize"`
	Precision string `json:"precision"`
	Format    string `json:"format"`
}

type outputDef struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Location *int   `json:"location"`
}

type defineDef struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// code accepts either a string or an array of lines.
type code string

func (c *code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = code(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("shader code must be a string or an array of lines")
	}
	*c = code(strings.Join(lines, "\n"))
	return nil
}

// parseDefinition decodes a material definition file.
func parseDefinition(raw []byte) (*definition, error) {
	var def definition
	if err := json.Unmarshal(jsonc.ToJSON(raw), &def); err != nil {
		return nil, fmt.Errorf("parse material definition: %w", err)
	}
	return &def, nil
}

// apply transfers the definition onto a builder. Unknown enum strings
// are reported rather than silently ignored.
func (d *definition) apply(b *matc.MaterialBuilder) error {
	s := d.Material
	if s.Name != "" {
		b.Name(s.Name)
	}

	if s.Domain != "" {
		switch s.Domain {
		case "surface":
			b.MaterialDomain(material.DomainSurface)
		case "postprocess":
			b.MaterialDomain(material.DomainPostProcess)
		default:
			return fmt.Errorf("unknown domain %q", s.Domain)
		}
	}
	if s.Shading != "" {
		shading, err := parseShading(s.Shading)
		if err != nil {
			return err
		}
		b.Shading(shading)
	}
	if s.Interpolation != "" {
		switch s.Interpolation {
		case "smooth":
			b.Interpolation(material.InterpolationSmooth)
		case "flat":
			b.Interpolation(material.InterpolationFlat)
		default:
			return fmt.Errorf("unknown interpolation %q", s.Interpolation)
		}
	}
	if s.VertexDomain != "" {
		vd, err := parseVertexDomain(s.VertexDomain)
		if err != nil {
			return err
		}
		b.VertexDomain(vd)
	}
	if s.Blending != "" {
		mode, err := parseBlending(s.Blending)
		if err != nil {
			return err
		}
		b.Blending(mode)
	}
	if s.PostLighting != "" {
		mode, err := parseBlending(s.PostLighting)
		if err != nil {
			return err
		}
		b.PostLightingBlending(mode)
	}
	if s.Transparency != "" {
		switch s.Transparency {
		case "default":
			b.TransparencyMode(material.TransparencyDefault)
		case "twoPassesOneSide":
			b.TransparencyMode(material.TransparencyTwoPassesOneSide)
		case "twoPassesTwoSides":
			b.TransparencyMode(material.TransparencyTwoPassesTwoSides)
		default:
			return fmt.Errorf("unknown transparency mode %q", s.Transparency)
		}
	}
	if s.Culling != "" {
		switch s.Culling {
		case "none":
			b.Culling(material.CullingNone)
		case "front":
			b.Culling(material.CullingFront)
		case "back":
			b.Culling(material.CullingBack)
		case "frontAndBack":
			b.Culling(material.CullingFrontAndBack)
		default:
			return fmt.Errorf("unknown culling mode %q", s.Culling)
		}
	}
	if s.Refraction != "" {
		switch s.Refraction {
		case "none":
			b.RefractionMode(material.RefractionModeNone)
		case "cubemap":
			b.RefractionMode(material.RefractionModeCubemap)
		case "screenspace":
			b.RefractionMode(material.RefractionModeScreenSpace)
		default:
			return fmt.Errorf("unknown refraction mode %q", s.Refraction)
		}
	}
	if s.RefractionType != "" {
		switch s.RefractionType {
		case "solid":
			b.RefractionType(material.RefractionTypeSolid)
		case "thin":
			b.RefractionType(material.RefractionTypeThin)
		default:
			return fmt.Errorf("unknown refraction type %q", s.RefractionType)
		}
	}
	if s.Reflection != "" {
		switch s.Reflection {
		case "default":
			b.ReflectionMode(material.ReflectionDefault)
		case "screenspace":
			b.ReflectionMode(material.ReflectionScreenSpace)
		default:
			return fmt.Errorf("unknown reflection mode %q", s.Reflection)
		}
	}

	for _, p := range s.Parameters {
		if err := applyParameter(b, p); err != nil {
			return err
		}
	}
	for i, name := range s.Variables {
		if err := checkErr(b.Variable(i, name)); err != nil {
			return err
		}
	}
	for _, r := range s.Requires {
		attr, err := parseAttribute(r)
		if err != nil {
			return err
		}
		b.Require(attr)
	}
	for _, out := range s.Outputs {
		if err := applyOutput(b, out); err != nil {
			return err
		}
	}
	for _, def := range s.Defines {
		b.ShaderDefine(def.Name, def.Value)
	}
	for _, f := range s.VariantFilter {
		filter, err := parseVariantFilter(f)
		if err != nil {
			return err
		}
		b.VariantFilter(filter)
	}

	if s.ColorWrite != nil {
		b.ColorWrite(*s.ColorWrite)
	}
	if s.DepthWrite != nil {
		b.DepthWrite(*s.DepthWrite)
	}
	if s.DepthCulling != nil {
		b.DepthCulling(*s.DepthCulling)
	}
	if s.Instanced {
		b.Instanced(true)
	}
	if s.DoubleSided != nil {
		b.DoubleSided(*s.DoubleSided)
	}
	if s.MaskThreshold != nil {
		b.MaskThreshold(*s.MaskThreshold)
	}
	if s.ShadowMultiplier {
		b.ShadowMultiplier(true)
	}
	if s.TransparentShadow {
		b.TransparentShadow(true)
	}
	if s.SpecularAA {
		b.SpecularAntiAliasing(true)
	}
	if s.SpecularAAVariance != nil {
		b.SpecularAntiAliasingVariance(*s.SpecularAAVariance)
	}
	if s.SpecularAAThreshold != nil {
		b.SpecularAntiAliasingThreshold(*s.SpecularAAThreshold)
	}
	if s.ClearCoatIorChange != nil {
		b.ClearCoatIorChange(*s.ClearCoatIorChange)
	}
	if s.FlipUV != nil {
		b.FlipUV(*s.FlipUV)
	}
	if s.CustomSurfaceShading {
		b.CustomSurfaceShading(true)
	}
	if s.MultiBounceAO {
		b.MultiBounceAmbientOcclusion(true)
	}
	if s.SpecularAO {
		b.SpecularAmbientOcclusion(true)
	}
	if s.FramebufferFetch {
		b.EnableFramebufferFetch()
	}
	switch s.FeatureLevel {
	case 0:
		// keep the default
	case 1:
		b.FeatureLevel(material.FeatureLevel1)
	case 2:
		b.FeatureLevel(material.FeatureLevel2)
	default:
		return fmt.Errorf("unknown feature level %d", s.FeatureLevel)
	}

	if d.Vertex != "" {
		b.MaterialVertex(string(d.Vertex))
	}
	if d.Fragment != "" {
		b.Material(string(d.Fragment))
	}
	return nil
}

func applyParameter(b *matc.MaterialBuilder, p paramDef) error {
	var opts []matc.ParameterOption
	if p.Precision != "" {
		prec, err := parsePrecision(p.Precision)
		if err != nil {
			return err
		}
		opts = append(opts, matc.WithPrecision(prec))
	}

	if p.Type == "subpassInput" {
		return checkErr(b.Subpass(p.Name, opts...))
	}
	if st, ok := samplerTypes[p.Type]; ok {
		if p.Format != "" {
			format, err := parseSamplerFormat(p.Format)
			if err != nil {
				return err
			}
			opts = append(opts, matc.WithFormat(format))
		}
		return checkErr(b.Sampler(st, p.Name, opts...))
	}
	if ut, ok := uniformTypes[p.Type]; ok {
		if p.ArraySize > 0 {
			opts = append(opts, matc.WithArraySize(p.ArraySize))
		}
		return checkErr(b.Uniform(ut, p.Name, opts...))
	}
	return fmt.Errorf("unknown parameter type %q", p.Type)
}

func applyOutput(b *matc.MaterialBuilder, out outputDef) error {
	target := material.OutputColor
	switch out.Target {
	case "", "color":
	case "depth":
		target = material.OutputDepth
	default:
		return fmt.Errorf("unknown output target %q", out.Target)
	}
	t := material.OutputFloat4
	switch out.Type {
	case "", "float4":
	case "float":
		t = material.OutputFloat
	case "float2":
		t = material.OutputFloat2
	case "float3":
		t = material.OutputFloat3
	default:
		return fmt.Errorf("unknown output type %q", out.Type)
	}
	location := -1
	if out.Location != nil {
		location = *out.Location
	}
	return checkErr(b.Output(target, t, out.Name, location))
}

// checkErr surfaces a builder configuration error immediately so the
// message points at the offending definition entry.
func checkErr(b *matc.MaterialBuilder) error { return b.Err() }

var uniformTypes = map[string]material.UniformType{
	"bool":   material.UniformBool,
	"bool2":  material.UniformBool2,
	"bool3":  material.UniformBool3,
	"bool4":  material.UniformBool4,
	"float":  material.UniformFloat,
	"float2": material.UniformFloat2,
	"float3": material.UniformFloat3,
	"float4": material.UniformFloat4,
	"int":    material.UniformInt,
	"int2":   material.UniformInt2,
	"int3":   material.UniformInt3,
	"int4":   material.UniformInt4,
	"uint":   material.UniformUint,
	"uint2":  material.UniformUint2,
	"uint3":  material.UniformUint3,
	"uint4":  material.UniformUint4,
	"mat3":   material.UniformMat3,
	"mat4":   material.UniformMat4,
}

var samplerTypes = map[string]material.SamplerType{
	"sampler2d":           material.Sampler2D,
	"sampler2dArray":      material.Sampler2DArray,
	"samplerCubemap":      material.SamplerCubemap,
	"samplerExternal":     material.SamplerExternal,
	"sampler3d":           material.Sampler3D,
	"samplerCubemapArray": material.SamplerCubemapArray,
}

func parseShading(s string) (material.Shading, error) {
	switch s {
	case "unlit":
		return material.ShadingUnlit, nil
	case "lit":
		return material.ShadingLit, nil
	case "subsurface":
		return material.ShadingSubsurface, nil
	case "cloth":
		return material.ShadingCloth, nil
	case "specularGlossiness":
		return material.ShadingSpecularGlossiness, nil
	}
	return 0, fmt.Errorf("unknown shading model %q", s)
}

func parseVertexDomain(s string) (material.VertexDomain, error) {
	switch s {
	case "object":
		return material.VertexDomainObject, nil
	case "world":
		return material.VertexDomainWorld, nil
	case "view":
		return material.VertexDomainView, nil
	case "device":
		return material.VertexDomainDevice, nil
	}
	return 0, fmt.Errorf("unknown vertex domain %q", s)
}

func parseBlending(s string) (material.BlendingMode, error) {
	switch s {
	case "opaque":
		return material.BlendingOpaque, nil
	case "transparent":
		return material.BlendingTransparent, nil
	case "add":
		return material.BlendingAdd, nil
	case "masked":
		return material.BlendingMasked, nil
	case "fade":
		return material.BlendingFade, nil
	case "multiply":
		return material.BlendingMultiply, nil
	case "screen":
		return material.BlendingScreen, nil
	}
	return 0, fmt.Errorf("unknown blending mode %q", s)
}

func parseAttribute(s string) (material.VertexAttribute, error) {
	switch s {
	case "position":
		return material.AttributePosition, nil
	case "tangents":
		return material.AttributeTangents, nil
	case "color":
		return material.AttributeColor, nil
	case "uv0":
		return material.AttributeUV0, nil
	case "uv1":
		return material.AttributeUV1, nil
	case "custom0":
		return material.AttributeCustom0, nil
	case "custom1":
		return material.AttributeCustom1, nil
	case "custom2":
		return material.AttributeCustom2, nil
	case "custom3":
		return material.AttributeCustom3, nil
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

func parsePrecision(s string) (material.Precision, error) {
	switch s {
	case "default":
		return material.PrecisionDefault, nil
	case "low":
		return material.PrecisionLow, nil
	case "medium":
		return material.PrecisionMedium, nil
	case "high":
		return material.PrecisionHigh, nil
	}
	return 0, fmt.Errorf("unknown precision %q", s)
}

func parseSamplerFormat(s string) (material.SamplerFormat, error) {
	switch s {
	case "int":
		return material.SamplerFormatInt, nil
	case "uint":
		return material.SamplerFormatUint, nil
	case "float":
		return material.SamplerFormatFloat, nil
	case "shadow":
		return material.SamplerFormatShadow, nil
	}
	return 0, fmt.Errorf("unknown sampler format %q", s)
}

func parseVariantFilter(s string) (material.VariantFilter, error) {
	switch s {
	case "directionalLighting":
		return material.FilterDirectionalLighting, nil
	case "dynamicLighting":
		return material.FilterDynamicLighting, nil
	case "shadowReceiver":
		return material.FilterShadowReceiver, nil
	case "skinning":
		return material.FilterSkinning, nil
	case "fog":
		return material.FilterFog, nil
	}
	return 0, fmt.Errorf("unknown variant filter %q", s)
}
