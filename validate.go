package matc

import (
	"errors"
	"fmt"

	"github.com/gogpu/matc/material"
)

// Validation sentinels, wrapped with material context by the checks.
var (
	ErrTooManySamplers     = errors.New("matc: sampler count exceeds the feature level budget")
	ErrSamplerNeedsLevel2  = errors.New("matc: sampler type requires feature level 2")
	ErrUnknownFeatureLevel = errors.New("matc: unknown feature level")
)

// Sampler budgets per feature level. The engine reserves the low slots
// for its own per-view samplers on surface materials, so the material's
// own budget is what remains.
const (
	maxSamplersFeatureLevel1 = 9
	maxSamplersFeatureLevel2 = 12
)

// checkMaterialLevelFeatures verifies that the material only uses
// capabilities its declared feature level provides.
func checkMaterialLevelFeatures(info *material.Info) error {
	samplerCount := len(info.SamplerBlock.Samplers)

	switch info.FeatureLevel {
	case material.FeatureLevel1:
		if samplerCount > maxSamplersFeatureLevel1 {
			return fmt.Errorf("material %q uses %d samplers, feature level 1 allows %d: %w",
				info.Name, samplerCount, maxSamplersFeatureLevel1, ErrTooManySamplers)
		}
		for _, s := range info.SamplerBlock.Samplers {
			if s.Type == material.SamplerCubemapArray {
				return fmt.Errorf("material %q: sampler %q is a cubemap array: %w",
					info.Name, s.Name, ErrSamplerNeedsLevel2)
			}
		}
	case material.FeatureLevel2:
		if samplerCount > maxSamplersFeatureLevel2 {
			return fmt.Errorf("material %q uses %d samplers, feature level 2 allows %d: %w",
				info.Name, samplerCount, maxSamplersFeatureLevel2, ErrTooManySamplers)
		}
	default:
		return fmt.Errorf("material %q declares feature level %d: %w",
			info.Name, info.FeatureLevel, ErrUnknownFeatureLevel)
	}
	return nil
}
