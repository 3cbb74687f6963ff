// Package matc compiles a single abstract material description into a set
// of concrete shader programs for multiple shader models, graphics APIs
// and intermediate representations, and packs the results into a compact,
// deduplicated binary artifact.
//
// A build crosses the requested shader models (mobile, desktop) with the
// requested target APIs (OpenGL, Vulkan, Metal) into codegen permutations,
// compiles every (permutation, runtime variant, shader stage) combination
// in parallel, deduplicates the resulting shader text and SPIR-V modules
// into shared dictionaries, and flattens everything into an ordered,
// typed chunk stream. Engine runtimes load the artifact and select the
// matching program at draw time.
//
// Example:
//
//	ctx := matc.Acquire()
//	defer ctx.Release()
//
//	pkg := matc.NewMaterialBuilder().
//	    Name("car_paint").
//	    Shading(material.ShadingLit).
//	    Uniform(material.UniformFloat4, "tint").
//	    Material("material.baseColor = materialParams.tint;").
//	    Platform(material.PlatformMobile).
//	    TargetAPI(material.TargetOpenGL).
//	    Build(ctx)
//	if !pkg.IsValid() {
//	    // diagnostics were written to the configured logger
//	}
package matc

// MaterialVersion is the artifact format version written into every
// package. Bump on any wire-format change.
const MaterialVersion uint32 = 12
