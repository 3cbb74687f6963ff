package chunk

import (
	"strings"

	"github.com/zeebo/blake3"
)

// LineDictionary stores unique lines of shader text. Lines are stored
// without their trailing newline; readers reconstruct a shader by joining
// the referenced lines with '\n'. Insertion is idempotent and insertion
// order defines the serialized dictionary order.
type LineDictionary struct {
	lines   []string
	indices map[string]uint16
}

// AddText splits a whole shader document into lines and inserts each
// unique line once.
func (d *LineDictionary) AddText(text string) {
	if d.indices == nil {
		d.indices = make(map[string]uint16)
	}
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			d.addLine(text)
			return
		}
		d.addLine(text[:i])
		text = text[i+1:]
	}
}

func (d *LineDictionary) addLine(line string) {
	if _, ok := d.indices[line]; ok {
		return
	}
	d.indices[line] = uint16(len(d.lines))
	d.lines = append(d.lines, line)
}

// IndexOf returns the positional index of a previously inserted line.
// The second result is false if the line was never inserted.
func (d *LineDictionary) IndexOf(line string) (uint16, bool) {
	idx, ok := d.indices[line]
	return idx, ok
}

// Len returns the number of unique lines stored.
func (d *LineDictionary) Len() int { return len(d.lines) }

// Line returns the stored line at the given index.
func (d *LineDictionary) Line(i int) string { return d.lines[i] }

// BlobDictionary stores unique binary blobs of 32-bit words (SPIR-V
// modules). The first insertion of distinct content assigns the next
// index; identical content returns the existing index. The reverse lookup
// is keyed by a BLAKE3 digest of the blob bytes so duplicate modules are
// found without retaining a second copy of the content.
type BlobDictionary struct {
	blobs   [][]uint32
	indices map[[32]byte]uint32
}

// AddBlob inserts a blob and returns its stable index. The dictionary
// takes ownership of the slice; callers must not mutate it afterwards.
func (d *BlobDictionary) AddBlob(words []uint32) uint32 {
	if d.indices == nil {
		d.indices = make(map[[32]byte]uint32)
	}
	key := blake3.Sum256(wordsToBytes(words))
	if idx, ok := d.indices[key]; ok {
		return idx
	}
	idx := uint32(len(d.blobs))
	d.indices[key] = idx
	d.blobs = append(d.blobs, words)
	return idx
}

// Len returns the number of unique blobs stored.
func (d *BlobDictionary) Len() int { return len(d.blobs) }

// Blob returns the stored blob at the given index.
func (d *BlobDictionary) Blob(i int) []uint32 { return d.blobs[i] }

// wordsToBytes serializes 32-bit words little-endian, the byte order
// SPIR-V consumers expect.
func wordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}
