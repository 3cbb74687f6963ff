package matc

import (
	"fmt"
	"testing"

	"github.com/gogpu/matc/material"
)

func samplerInfo(n int, t material.SamplerType) []material.SamplerInfo {
	out := make([]material.SamplerInfo, n)
	for i := range out {
		out[i] = material.SamplerInfo{Name: fmt.Sprintf("s%d", i), Type: t}
	}
	return out
}

func TestCheckMaterialLevelFeatures(t *testing.T) {
	tests := []struct {
		name     string
		level    material.FeatureLevel
		samplers []material.SamplerInfo
		wantErr  bool
	}{
		{"level 1 at budget", material.FeatureLevel1, samplerInfo(9, material.Sampler2D), false},
		{"level 1 over budget", material.FeatureLevel1, samplerInfo(10, material.Sampler2D), true},
		{"level 1 cubemap array", material.FeatureLevel1, samplerInfo(1, material.SamplerCubemapArray), true},
		{"level 2 at budget", material.FeatureLevel2, samplerInfo(12, material.Sampler2D), false},
		{"level 2 over budget", material.FeatureLevel2, samplerInfo(13, material.Sampler2D), true},
		{"level 2 cubemap array", material.FeatureLevel2, samplerInfo(1, material.SamplerCubemapArray), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &material.Info{
				Name:         "test",
				FeatureLevel: tt.level,
				SamplerBlock: material.SamplerBlock{Samplers: tt.samplers},
			}
			err := checkMaterialLevelFeatures(info)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
