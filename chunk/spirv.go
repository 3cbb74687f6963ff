package chunk

import "github.com/klauspost/compress/zstd"

// SpirvEntry is one compiled SPIR-V module. DictionaryIndex is backfilled
// when the module is inserted into the blob dictionary; until then it is
// meaningless.
type SpirvEntry struct {
	ShaderModel     uint8
	VariantKey      uint8
	Stage           uint8
	Spirv           []uint32
	DictionaryIndex uint32
}

// SortKey builds the composite ordering key: shader model most
// significant, then variant key, then stage.
func (e SpirvEntry) SortKey() uint32 {
	return uint32(e.ShaderModel)<<16 | uint32(e.VariantKey)<<8 | uint32(e.Stage)
}

// SpirvDictionaryChunk serializes a BlobDictionary. Layout: uint32 blob
// count, uint8 compression flag, then per blob a uint32 uncompressed byte
// size followed by a length-prefixed payload (zstd-compressed when the
// flag is set).
//
// Compression is disabled when debug info generation was requested, so
// offline tooling can scan the raw SPIR-V in place.
type SpirvDictionaryChunk struct {
	dict     *BlobDictionary
	compress bool
}

// NewSpirvDictionaryChunk wraps a dictionary for emission.
func NewSpirvDictionaryChunk(dict *BlobDictionary, compress bool) *SpirvDictionaryChunk {
	return &SpirvDictionaryChunk{dict: dict, compress: compress}
}

// Flatten implements Payload.
func (c *SpirvDictionaryChunk) Flatten(f *Flattener) {
	f.WriteUint32(uint32(c.dict.Len()))
	f.WriteBool(c.compress)

	var enc *zstd.Encoder
	if c.compress {
		// The encoder only fails on invalid options; defaults are valid.
		enc, _ = zstd.NewWriter(nil)
		defer enc.Close()
	}

	for i := 0; i < c.dict.Len(); i++ {
		raw := wordsToBytes(c.dict.Blob(i))
		f.WriteUint32(uint32(len(raw)))
		if enc != nil {
			f.WriteBlob(enc.EncodeAll(raw, nil))
		} else {
			f.WriteBlob(raw)
		}
	}
}

// SpirvChunk serializes the SPIR-V entry list. Each entry is its identity
// triple plus the uint32 blob dictionary index.
type SpirvChunk struct {
	entries []SpirvEntry
}

// NewSpirvChunk wraps sorted, index-backfilled entries for emission.
func NewSpirvChunk(entries []SpirvEntry) *SpirvChunk {
	return &SpirvChunk{entries: entries}
}

// Flatten implements Payload.
func (c *SpirvChunk) Flatten(f *Flattener) {
	f.WriteUint32(uint32(len(c.entries)))
	for _, e := range c.entries {
		f.WriteUint8(e.ShaderModel)
		f.WriteUint8(e.VariantKey)
		f.WriteUint8(e.Stage)
		f.WriteUint32(e.DictionaryIndex)
	}
}
