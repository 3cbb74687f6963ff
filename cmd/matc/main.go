// Command matc compiles a material definition file into a binary
// material artifact.
//
// Usage:
//
//	matc [flags] -o material.bin material.mat
//
// The input is a JSON document (comments and trailing commas allowed)
// with a "material" settings object and optional "vertex" and "fragment"
// shader snippets.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/gogpu/matc"
	"github.com/gogpu/matc/material"
)

func main() {
	var (
		output       = flag.StringP("output", "o", "", "output artifact path (required)")
		apis         = flag.StringSliceP("api", "a", []string{"opengl"}, "target APIs: opengl, vulkan, metal, all")
		platform     = flag.StringP("platform", "p", "all", "target platform: mobile, desktop, all")
		optimization = flag.StringP("optimization", "O", "performance", "optimization level: none, preprocessor, size, performance")
		debugInfo    = flag.BoolP("debug", "g", false, "keep debug info in compiled shaders")
		printShaders = flag.BoolP("print-shaders", "w", false, "log generated shader source")
		verbose      = flag.BoolP("verbose", "v", false, "verbose diagnostics")
		quiet        = flag.BoolP("quiet", "q", false, "suppress all output except errors")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: matc [flags] -o <output> <material file>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*output, flag.Args(), *apis, *platform, *optimization,
		*debugInfo, *printShaders, *verbose, *quiet); err != nil {
		fmt.Fprintln(os.Stderr, "matc:", err)
		os.Exit(1)
	}
}

func run(output string, args, apis []string, platform, optimization string,
	debugInfo, printShaders, verbose, quiet bool) error {

	if len(args) != 1 {
		return fmt.Errorf("expected exactly one material file, got %d", len(args))
	}
	if output == "" {
		return fmt.Errorf("no output path (-o) given")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	matc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	def, err := parseDefinition(raw)
	if err != nil {
		return err
	}

	builder := matc.NewMaterialBuilder()
	if err := def.apply(builder); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	for _, api := range apis {
		switch strings.ToLower(api) {
		case "opengl":
			builder.TargetAPI(material.TargetOpenGL)
		case "vulkan":
			builder.TargetAPI(material.TargetVulkan)
		case "metal":
			builder.TargetAPI(material.TargetMetal)
		case "all":
			builder.TargetAPI(material.TargetAll)
		default:
			return fmt.Errorf("unknown API %q", api)
		}
	}
	switch platform {
	case "mobile":
		builder.Platform(material.PlatformMobile)
	case "desktop":
		builder.Platform(material.PlatformDesktop)
	case "all":
		builder.Platform(material.PlatformAll)
	default:
		return fmt.Errorf("unknown platform %q", platform)
	}
	switch optimization {
	case "none":
		builder.Optimization(material.OptimizationNone)
	case "preprocessor":
		builder.Optimization(material.OptimizationPreprocessor)
	case "size":
		builder.Optimization(material.OptimizationSize)
	case "performance":
		builder.Optimization(material.OptimizationPerformance)
	default:
		return fmt.Errorf("unknown optimization level %q", optimization)
	}
	builder.GenerateDebugInfo(debugInfo)
	builder.PrintShaders(printShaders)

	ctx := matc.Acquire()
	defer ctx.Release()

	pkg := builder.Build(ctx)
	if !pkg.IsValid() {
		return fmt.Errorf("compilation of %s failed", args[0])
	}
	if err := os.WriteFile(output, pkg.Bytes(), 0o644); err != nil {
		return err
	}
	return nil
}
