// Package post turns generated WGSL shader source into the artifact
// representations: GLSL text for OpenGL, SPIR-V words for Vulkan, and MSL
// text for Metal. It drives the gogpu/naga cross-compiler: source is
// parsed and lowered to IR once, optionally validated (the optimizing
// pass), and then handed to the backend matching the target API.
package post

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/matc/material"
)

// Config describes one compilation request. It identifies the permutation
// and variant being compiled and carries the per-build feature switches
// the backends need.
type Config struct {
	MaterialName        string
	Variant             material.Variant
	TargetAPI           material.TargetAPI
	TargetLanguage      material.TargetLanguage
	Stage               material.ShaderStage
	ShaderModel         material.ShaderModel
	Domain              material.Domain
	HasFramebufferFetch bool
}

// Result holds the outputs of one compilation. Only the fields relevant
// to the requested target API are populated: GLSL for OpenGL, Spirv for
// Vulkan, MSL for Metal.
type Result struct {
	GLSL  string
	Spirv []uint32
	MSL   string
}

// Options configures a Processor for one build.
type Options struct {
	// Optimization selects how much work each compilation performs.
	// Levels above OptimizationPreprocessor run IR validation before
	// code generation; the SPIR-V target language validates at every
	// level.
	Optimization material.Optimization

	// GenerateDebugInfo keeps debug info (names, line info) in SPIR-V
	// output and adds source comments to GLSL output.
	GenerateDebugInfo bool

	// PrintShaders logs every input source at debug level.
	PrintShaders bool

	// Logger receives diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Processor compiles WGSL to the target representations. It is stateless
// apart from its options and safe for concurrent use once constructed.
type Processor struct {
	opts Options
	log  *slog.Logger
}

// New creates a processor. The zero Options value performs no
// optimization and strips debug info.
func New(opts Options) *Processor {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Processor{opts: opts, log: log}
}

// Process compiles one shader. The returned error describes the first
// failing stage; the caller owns failure reporting and cancellation.
func (p *Processor) Process(source string, cfg Config) (Result, error) {
	if p.opts.PrintShaders {
		p.log.Debug("generated shader",
			"material", cfg.MaterialName,
			"api", cfg.TargetAPI.String(),
			"stage", cfg.Stage.String(),
			"variant", cfg.Variant.Key,
			"source", source)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return Result{}, fmt.Errorf("lower: %w", err)
	}

	// The SPIR-V route always validates; the backend assumes well-formed
	// IR. Plain GLSL text output validates only at optimizing levels.
	if p.opts.Optimization > material.OptimizationPreprocessor ||
		cfg.TargetLanguage == material.LanguageSPIRV {
		validationErrors, err := naga.Validate(module)
		if err != nil {
			return Result{}, fmt.Errorf("validate: %w", err)
		}
		if len(validationErrors) > 0 {
			return Result{}, fmt.Errorf("validate: %w", &validationErrors[0])
		}
	}

	var out Result
	switch cfg.TargetAPI {
	case material.TargetOpenGL:
		opts := glsl.DefaultOptions()
		if cfg.ShaderModel == material.ShaderModelMobile {
			opts.LangVersion = glsl.VersionES300
		} else {
			opts.LangVersion = glsl.Version330
			opts.ForceHighPrecision = false
		}
		if p.opts.GenerateDebugInfo {
			opts.WriterFlags |= glsl.WriterFlagDebugInfo
		}
		if p.opts.Optimization == material.OptimizationSize {
			opts.WriterFlags |= glsl.WriterFlagMinify
		}
		code, _, err := glsl.Compile(module, opts)
		if err != nil {
			return Result{}, fmt.Errorf("glsl: %w", err)
		}
		out.GLSL = code

	case material.TargetVulkan:
		spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{
			Version: spirv.Version1_3,
			Debug:   p.opts.GenerateDebugInfo,
		})
		if err != nil {
			return Result{}, fmt.Errorf("spirv: %w", err)
		}
		out.Spirv = bytesToWords(spirvBytes)

	case material.TargetMetal:
		code, _, err := msl.Compile(module, msl.DefaultOptions())
		if err != nil {
			return Result{}, fmt.Errorf("msl: %w", err)
		}
		out.MSL = code

	default:
		return Result{}, fmt.Errorf("post: target API %q is not a single API", cfg.TargetAPI)
	}
	return out, nil
}

// bytesToWords converts a SPIR-V byte stream to its little-endian 32-bit
// word representation.
func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
