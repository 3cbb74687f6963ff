package material

// Permutation is one (shader model, target API, target language)
// combination the compiler builds every runtime variant for. The API field
// always has exactly one bit set; multi-API builds expand into multiple
// permutations.
type Permutation struct {
	Model    ShaderModel
	API      TargetAPI
	Language TargetLanguage
}
