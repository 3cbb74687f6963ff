package chunk

// Type tags a chunk. The value is eight ASCII bytes packed little-endian,
// so tags read naturally in a hex dump of the artifact.
type Type uint64

// MakeType builds a chunk type from an 8-character ASCII tag.
// It panics if the tag is not exactly 8 bytes; tags are compile-time
// constants and a bad one is a programming error.
func MakeType(tag string) Type {
	if len(tag) != 8 {
		panic("chunk: type tag must be exactly 8 characters: " + tag)
	}
	var t Type
	for i := 0; i < 8; i++ {
		t |= Type(tag[i]) << (8 * i)
	}
	return t
}

// Chunk types of the material artifact.
var (
	MaterialVersion        = MakeType("MAT_VERS")
	MaterialFeatureLevel   = MakeType("MAT_FEAT")
	MaterialName           = MakeType("MAT_NAME")
	MaterialShaderModels   = MakeType("MAT_SMDL")
	MaterialDomain         = MakeType("MAT_DOMN")
	MaterialHasCustomDepth = MakeType("MAT_CDEP")

	MaterialUniformBindings = MakeType("MAT_UBND")
	MaterialSamplerBindings = MakeType("MAT_SBND")
	MaterialUniformBlock    = MakeType("MAT_UIBK")
	MaterialSamplerBlock    = MakeType("MAT_SIBK")
	MaterialSubpassBlock    = MakeType("MAT_SPBK")

	MaterialDoubleSidedSet      = MakeType("MAT_DSST")
	MaterialDoubleSided         = MakeType("MAT_DSID")
	MaterialBlendingMode        = MakeType("MAT_BLND")
	MaterialTransparencyMode    = MakeType("MAT_TRMD")
	MaterialReflectionMode      = MakeType("MAT_RFLM")
	MaterialDepthWriteSet       = MakeType("MAT_DWST")
	MaterialColorWrite          = MakeType("MAT_CWRT")
	MaterialDepthWrite          = MakeType("MAT_DWRT")
	MaterialDepthTest           = MakeType("MAT_DTST")
	MaterialInstanced           = MakeType("MAT_INST")
	MaterialCullingMode         = MakeType("MAT_CULL")
	MaterialProperties          = MakeType("MAT_PROP")
	MaterialMaskThreshold       = MakeType("MAT_MASK")
	MaterialShading             = MakeType("MAT_SHAD")
	MaterialShadowMultiplier    = MakeType("MAT_SHML")
	MaterialRefractionMode      = MakeType("MAT_RFRM")
	MaterialRefractionType      = MakeType("MAT_RFRT")
	MaterialClearCoatIorChange  = MakeType("MAT_CCIO")
	MaterialRequiredAttributes  = MakeType("MAT_ATTR")
	MaterialSpecularAA          = MakeType("MAT_SPAA")
	MaterialSpecularAAVariance  = MakeType("MAT_SPAV")
	MaterialSpecularAAThreshold = MakeType("MAT_SPAT")
	MaterialVertexDomain        = MakeType("MAT_VDOM")
	MaterialInterpolation       = MakeType("MAT_INTP")

	DictionaryText  = MakeType("DIC_TEXT")
	DictionarySpirv = MakeType("DIC_SPIR")
	MaterialGlsl    = MakeType("MAT_GLSL")
	MaterialSpirv   = MakeType("MAT_SPIR")
	MaterialMetal   = MakeType("MAT_METL")
)

// Payload serializes one chunk's body into a flattener.
type Payload interface {
	Flatten(f *Flattener)
}

// entry is one typed record in the container.
type entry struct {
	tag     Type
	payload Payload
}

// Container is an ordered, append-only sequence of typed chunks. Chunks
// are flattened in emission order; the container never reorders.
type Container struct {
	chunks []entry
}

// Add appends a chunk with an arbitrary payload writer.
func (c *Container) Add(tag Type, p Payload) {
	c.chunks = append(c.chunks, entry{tag: tag, payload: p})
}

// Len returns the number of chunks added so far.
func (c *Container) Len() int { return len(c.chunks) }

// Types returns the chunk type tags in emission order.
func (c *Container) Types() []Type {
	types := make([]Type, len(c.chunks))
	for i, ch := range c.chunks {
		types[i] = ch.tag
	}
	return types
}

// Flatten serializes every chunk in emission order. Each chunk is written
// as a uint64 type tag, a uint32 payload size, and the payload bytes, with
// no padding between chunks.
func (c *Container) Flatten() []byte {
	out := NewFlattener(1024)
	for _, ch := range c.chunks {
		body := NewFlattener(256)
		ch.payload.Flatten(body)
		out.WriteUint64(uint64(ch.tag))
		out.WriteUint32(uint32(body.Len()))
		out.buf = append(out.buf, body.Bytes()...)
	}
	return out.Bytes()
}

// Simple payloads for scalar and string chunks.

type boolPayload bool

func (p boolPayload) Flatten(f *Flattener) { f.WriteBool(bool(p)) }

type uint8Payload uint8

func (p uint8Payload) Flatten(f *Flattener) { f.WriteUint8(uint8(p)) }

type uint32Payload uint32

func (p uint32Payload) Flatten(f *Flattener) { f.WriteUint32(uint32(p)) }

type uint64Payload uint64

func (p uint64Payload) Flatten(f *Flattener) { f.WriteUint64(uint64(p)) }

type float32Payload float32

func (p float32Payload) Flatten(f *Flattener) { f.WriteFloat32(float32(p)) }

type stringPayload string

func (p stringPayload) Flatten(f *Flattener) { f.WriteString(string(p)) }

// AddBool appends a one-byte bool chunk.
func (c *Container) AddBool(tag Type, v bool) { c.Add(tag, boolPayload(v)) }

// AddUint8 appends a one-byte scalar chunk.
func (c *Container) AddUint8(tag Type, v uint8) { c.Add(tag, uint8Payload(v)) }

// AddUint32 appends a four-byte scalar chunk.
func (c *Container) AddUint32(tag Type, v uint32) { c.Add(tag, uint32Payload(v)) }

// AddUint64 appends an eight-byte scalar chunk.
func (c *Container) AddUint64(tag Type, v uint64) { c.Add(tag, uint64Payload(v)) }

// AddFloat32 appends a four-byte float chunk.
func (c *Container) AddFloat32(tag Type, v float32) { c.Add(tag, float32Payload(v)) }

// AddString appends a NUL-terminated string chunk.
func (c *Container) AddString(tag Type, v string) { c.Add(tag, stringPayload(v)) }
