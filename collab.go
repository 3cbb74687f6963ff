package matc

import (
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/post"
)

// ShaderGenerator produces the shader source for one variant of one
// codegen permutation. Implementations must be safe for concurrent use;
// the build fans variants out across workers.
type ShaderGenerator interface {
	CreateVertexProgram(model material.ShaderModel, api material.TargetAPI,
		lang material.TargetLanguage, info *material.Info, variant material.Variant,
		interpolation material.Interpolation, vertexDomain material.VertexDomain) (string, error)

	CreateFragmentProgram(model material.ShaderModel, api material.TargetAPI,
		lang material.TargetLanguage, info *material.Info, variant material.Variant,
		interpolation material.Interpolation) (string, error)
}

// PostProcessor turns generated shader source into the representation a
// target API consumes. Implementations must be safe for concurrent use
// after construction.
type PostProcessor interface {
	Process(source string, cfg post.Config) (post.Result, error)
}
