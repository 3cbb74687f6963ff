package material

// Variant feature bits. A runtime variant key is a combination of these;
// the engine picks the matching program at draw time.
const (
	VariantDirectionalLighting uint8 = 1 << iota
	VariantDynamicLighting
	VariantShadowReceiver
	VariantSkinning
	VariantFog
	VariantDepth

	variantBits  = 6
	variantCount = 1 << variantBits
)

// Bits relevant to each stage. Vertex programs only differ along these
// bits; every other bit collapses onto the same vertex program.
const (
	vertexVariantMask   = VariantSkinning | VariantDepth
	lightingVariantMask = VariantDirectionalLighting | VariantDynamicLighting | VariantShadowReceiver
)

// Variant is one (feature bitmask, shader stage) combination compiled into
// the artifact.
type Variant struct {
	Key   uint8
	Stage ShaderStage
}

// VariantFilter excludes variant feature bits from a build. A set bit
// removes every variant that uses the corresponding feature.
type VariantFilter uint8

const (
	FilterDirectionalLighting = VariantFilter(VariantDirectionalLighting)
	FilterDynamicLighting     = VariantFilter(VariantDynamicLighting)
	FilterShadowReceiver      = VariantFilter(VariantShadowReceiver)
	FilterSkinning            = VariantFilter(VariantSkinning)
	FilterFog                 = VariantFilter(VariantFog)
)

// validVariant reports whether a key is a meaningful combination.
// Depth variants are dedicated shadow/depth-pass programs and carry no
// lighting or fog bits.
func validVariant(key uint8, lit, shadowMultiplier bool) bool {
	if key&VariantDepth != 0 {
		if key&(lightingVariantMask|VariantFog) != 0 {
			return false
		}
	}
	if !lit && !shadowMultiplier {
		// Unlit materials have no lighting variants at all.
		if key&lightingVariantMask != 0 {
			return false
		}
	}
	if !lit && shadowMultiplier {
		// The shadow multiplier only needs the shadow receiver bit; the
		// other lighting bits stay pruned.
		if key&(VariantDirectionalLighting|VariantDynamicLighting) != 0 {
			return false
		}
	}
	return true
}

// SurfaceVariants computes the ordered runtime variant list for a surface
// material. The result is deterministic: keys ascend, and for each key the
// vertex entry (if any) precedes the fragment entry.
func SurfaceVariants(filter VariantFilter, lit, shadowMultiplier bool) []Variant {
	variants := make([]Variant, 0, variantCount)
	for k := 0; k < variantCount; k++ {
		key := uint8(k)
		if key&uint8(filter) != 0 {
			continue
		}
		if !validVariant(key, lit, shadowMultiplier) {
			continue
		}
		if key&vertexVariantMask == key {
			variants = append(variants, Variant{Key: key, Stage: StageVertex})
		}
		variants = append(variants, Variant{Key: key, Stage: StageFragment})
	}
	return variants
}

// Post-process variant keys.
const (
	PostProcessOpaque      uint8 = 0
	PostProcessTranslucent uint8 = 1
)

// PostProcessVariants returns the fixed variant list for post-process
// materials: opaque and translucent, both stages.
func PostProcessVariants() []Variant {
	return []Variant{
		{Key: PostProcessOpaque, Stage: StageVertex},
		{Key: PostProcessOpaque, Stage: StageFragment},
		{Key: PostProcessTranslucent, Stage: StageVertex},
		{Key: PostProcessTranslucent, Stage: StageFragment},
	}
}
