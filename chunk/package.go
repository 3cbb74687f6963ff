package chunk

// Package is the flattened artifact of one material build. It owns its
// byte buffer outright; nothing aliases back into the container it was
// flattened from.
type Package struct {
	data []byte
}

// NewPackage wraps flattened artifact bytes.
func NewPackage(data []byte) Package {
	return Package{data: data}
}

// InvalidPackage returns the sentinel artifact representing a failed
// build. It has no bytes and IsValid reports false.
func InvalidPackage() Package {
	return Package{}
}

// IsValid reports whether the package holds a built artifact.
func (p Package) IsValid() bool { return len(p.data) > 0 }

// Bytes returns the artifact bytes. The caller must not mutate them.
func (p Package) Bytes() []byte { return p.data }

// Size returns the artifact size in bytes.
func (p Package) Size() int { return len(p.data) }
