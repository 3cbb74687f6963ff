package matc

import (
	"testing"

	"github.com/gogpu/matc/material"
)

func TestPlanPermutations(t *testing.T) {
	all := shaderModelsFor(material.PlatformAll)
	mobile := shaderModelsFor(material.PlatformMobile)

	tests := []struct {
		name    string
		models  material.ShaderModelMask
		apis    material.TargetAPI
		opt     material.Optimization
		vulkan  bool
		want    []material.Permutation
		wantOpt material.Optimization
	}{
		{
			name:   "default api is opengl",
			models: mobile,
			apis:   0,
			opt:    material.OptimizationNone,
			want: []material.Permutation{
				{Model: material.ShaderModelMobile, API: material.TargetOpenGL, Language: material.LanguageGLSL},
			},
			wantOpt: material.OptimizationNone,
		},
		{
			name:   "optimized opengl goes through spirv",
			models: mobile,
			apis:   material.TargetOpenGL,
			opt:    material.OptimizationPerformance,
			want: []material.Permutation{
				{Model: material.ShaderModelMobile, API: material.TargetOpenGL, Language: material.LanguageSPIRV},
			},
			wantOpt: material.OptimizationPerformance,
		},
		{
			name:   "vulkan semantics force optimization",
			models: mobile,
			apis:   material.TargetOpenGL,
			opt:    material.OptimizationNone,
			vulkan: true,
			want: []material.Permutation{
				{Model: material.ShaderModelMobile, API: material.TargetOpenGL, Language: material.LanguageSPIRV},
			},
			wantOpt: material.OptimizationPerformance,
		},
		{
			name:   "all models all apis",
			models: all,
			apis:   material.TargetAll,
			opt:    material.OptimizationPreprocessor,
			want: []material.Permutation{
				{Model: material.ShaderModelMobile, API: material.TargetOpenGL, Language: material.LanguageGLSL},
				{Model: material.ShaderModelMobile, API: material.TargetVulkan, Language: material.LanguageSPIRV},
				{Model: material.ShaderModelMobile, API: material.TargetMetal, Language: material.LanguageSPIRV},
				{Model: material.ShaderModelDesktop, API: material.TargetOpenGL, Language: material.LanguageGLSL},
				{Model: material.ShaderModelDesktop, API: material.TargetVulkan, Language: material.LanguageSPIRV},
				{Model: material.ShaderModelDesktop, API: material.TargetMetal, Language: material.LanguageSPIRV},
			},
			wantOpt: material.OptimizationPreprocessor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotOpt := planPermutations(tt.models, tt.apis, tt.opt, tt.vulkan)
			if gotOpt != tt.wantOpt {
				t.Errorf("effective optimization = %d, want %d", gotOpt, tt.wantOpt)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d permutations, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("permutation %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanPermutationsDeterministic(t *testing.T) {
	models := shaderModelsFor(material.PlatformAll)
	a, _ := planPermutations(models, material.TargetAll, material.OptimizationSize, false)
	b, _ := planPermutations(models, material.TargetAll, material.OptimizationSize, false)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("permutation %d differs between runs", i)
		}
	}
}
