package chunk

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestSpirvDictionaryChunkCompressed(t *testing.T) {
	dict := &BlobDictionary{}
	words := []uint32{0x07230203, 0x00010300, 0, 1, 2, 3, 2, 3, 2, 3}
	dict.AddBlob(words)

	f := NewFlattener(128)
	NewSpirvDictionaryChunk(dict, true).Flatten(f)
	data := f.Bytes()

	if got := binary.LittleEndian.Uint32(data[0:4]); got != 1 {
		t.Fatalf("blob count = %d, want 1", got)
	}
	if data[4] != 1 {
		t.Fatal("compression flag not set")
	}
	rawSize := binary.LittleEndian.Uint32(data[5:9])
	if rawSize != uint32(len(words)*4) {
		t.Fatalf("raw size = %d, want %d", rawSize, len(words)*4)
	}
	blobLen := binary.LittleEndian.Uint32(data[9:13])
	payload := data[13 : 13+blobLen]

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(raw, wordsToBytes(words)) {
		t.Error("round trip mismatch")
	}
}

func TestSpirvDictionaryChunkUncompressed(t *testing.T) {
	dict := &BlobDictionary{}
	words := []uint32{0x07230203, 42}
	dict.AddBlob(words)

	f := NewFlattener(64)
	NewSpirvDictionaryChunk(dict, false).Flatten(f)
	data := f.Bytes()

	if data[4] != 0 {
		t.Fatal("compression flag set")
	}
	blobLen := binary.LittleEndian.Uint32(data[9:13])
	if !bytes.Equal(data[13:13+blobLen], wordsToBytes(words)) {
		t.Error("raw payload mismatch")
	}
}

func TestSpirvChunkLayout(t *testing.T) {
	f := NewFlattener(64)
	NewSpirvChunk([]SpirvEntry{
		{ShaderModel: 1, VariantKey: 3, Stage: 0, DictionaryIndex: 7},
	}).Flatten(f)
	data := f.Bytes()

	if got := binary.LittleEndian.Uint32(data[0:4]); got != 1 {
		t.Fatalf("entry count = %d", got)
	}
	if data[4] != 1 || data[5] != 3 || data[6] != 0 {
		t.Errorf("identity triple = %v", data[4:7])
	}
	if got := binary.LittleEndian.Uint32(data[7:11]); got != 7 {
		t.Errorf("dictionary index = %d, want 7", got)
	}
}
