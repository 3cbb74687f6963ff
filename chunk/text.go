package chunk

import "strings"

// TextEntry is one compiled shader stored as text (GLSL or MSL).
type TextEntry struct {
	ShaderModel uint8
	VariantKey  uint8
	Stage       uint8
	Shader      string
}

// SortKey builds the composite ordering key: shader model most
// significant, then variant key, then stage.
func (e TextEntry) SortKey() uint32 {
	return uint32(e.ShaderModel)<<16 | uint32(e.VariantKey)<<8 | uint32(e.Stage)
}

// TextDictionaryChunk serializes a LineDictionary: a uint32 line count
// followed by each line, NUL-terminated, in insertion order. Indices used
// by text chunks are positions in this list.
type TextDictionaryChunk struct {
	dict *LineDictionary
}

// NewTextDictionaryChunk wraps a dictionary for emission.
func NewTextDictionaryChunk(dict *LineDictionary) *TextDictionaryChunk {
	return &TextDictionaryChunk{dict: dict}
}

// Dictionary returns the wrapped dictionary, for text chunks that resolve
// line indices against it.
func (c *TextDictionaryChunk) Dictionary() *LineDictionary { return c.dict }

// Flatten implements Payload.
func (c *TextDictionaryChunk) Flatten(f *Flattener) {
	f.WriteUint32(uint32(c.dict.Len()))
	for i := 0; i < c.dict.Len(); i++ {
		f.WriteString(c.dict.Line(i))
	}
}

// TextChunk serializes a list of text entries against a shared line
// dictionary. Each entry is written as its identity triple, a uint32 line
// count, and one uint16 dictionary index per line.
type TextChunk struct {
	entries []TextEntry
	dict    *LineDictionary
}

// NewTextChunk wraps sorted entries for emission. Every line of every
// entry must already be present in the dictionary.
func NewTextChunk(entries []TextEntry, dict *LineDictionary) *TextChunk {
	return &TextChunk{entries: entries, dict: dict}
}

// Flatten implements Payload.
func (c *TextChunk) Flatten(f *Flattener) {
	f.WriteUint32(uint32(len(c.entries)))
	for _, e := range c.entries {
		f.WriteUint8(e.ShaderModel)
		f.WriteUint8(e.VariantKey)
		f.WriteUint8(e.Stage)
		lines := strings.Split(e.Shader, "\n")
		f.WriteUint32(uint32(len(lines)))
		for _, line := range lines {
			idx, _ := c.dict.IndexOf(line)
			f.WriteUint16(idx)
		}
	}
}
