package matc

import "github.com/gogpu/matc/material"

// planPermutations computes the ordered codegen permutation list for a
// build: one permutation per requested (shader model, target API) pair.
//
// OpenGL is a special case. Any optimization beyond the preprocessor
// routes GLSL generation through SPIR-V; Vulkan semantics force that route
// unconditionally (the cross-compiler cannot turn SPIR-V back into GLSL
// without running the optimizer) and therefore also force the performance
// optimization level. Vulkan and Metal always compile through SPIR-V;
// Metal shading language is cross-compiled from SPIR-V downstream.
//
// The function is pure: same inputs, same output, no side effects. The
// returned optimization level is the effective one for the build.
func planPermutations(models material.ShaderModelMask, apis material.TargetAPI,
	opt material.Optimization, vulkanSemantics bool) ([]material.Permutation, material.Optimization) {

	glslLanguage := material.LanguageGLSL
	if opt > material.OptimizationPreprocessor {
		glslLanguage = material.LanguageSPIRV
	}
	if vulkanSemantics {
		opt = material.OptimizationPerformance
		glslLanguage = material.LanguageSPIRV
	}

	if apis == 0 {
		apis = material.TargetOpenGL
	}

	perms := make([]material.Permutation, 0, models.Count()*3)
	for _, model := range []material.ShaderModel{material.ShaderModelMobile, material.ShaderModelDesktop} {
		if !models.Has(model) {
			continue
		}
		if apis&material.TargetOpenGL != 0 {
			perms = append(perms, material.Permutation{
				Model: model, API: material.TargetOpenGL, Language: glslLanguage,
			})
		}
		if apis&material.TargetVulkan != 0 {
			perms = append(perms, material.Permutation{
				Model: model, API: material.TargetVulkan, Language: material.LanguageSPIRV,
			})
		}
		if apis&material.TargetMetal != 0 {
			perms = append(perms, material.Permutation{
				Model: model, API: material.TargetMetal, Language: material.LanguageSPIRV,
			})
		}
	}
	return perms, opt
}

// shaderModelsFor expands a Platform selection into a shader model mask.
func shaderModelsFor(p material.Platform) material.ShaderModelMask {
	var mask material.ShaderModelMask
	switch p {
	case material.PlatformMobile:
		mask = mask.Set(material.ShaderModelMobile)
	case material.PlatformDesktop:
		mask = mask.Set(material.ShaderModelDesktop)
	case material.PlatformAll:
		mask = mask.Set(material.ShaderModelMobile).Set(material.ShaderModelDesktop)
	}
	return mask
}
