package chunk

import "testing"

func TestLineDictionaryDedup(t *testing.T) {
	var d LineDictionary
	d.AddText("void main() {\n    return;\n}")
	d.AddText("void main() {\n    discard;\n}")

	// The shared lines appear once each.
	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}
	idx, ok := d.IndexOf("void main() {")
	if !ok || idx != 0 {
		t.Errorf("IndexOf(first line) = %d, %v", idx, ok)
	}
	if _, ok := d.IndexOf("    discard;"); !ok {
		t.Error("second document's unique line missing")
	}
	if _, ok := d.IndexOf("never inserted"); ok {
		t.Error("IndexOf reported a line that was never added")
	}
}

func TestLineDictionaryInsertionOrder(t *testing.T) {
	var d LineDictionary
	d.AddText("b\na\nb\nc")
	want := []string{"b", "a", "c"}
	if d.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", d.Len(), len(want))
	}
	for i, line := range want {
		if got := d.Line(i); got != line {
			t.Errorf("Line(%d) = %q, want %q", i, got, line)
		}
	}
}

func TestLineDictionaryEmptyLines(t *testing.T) {
	var d LineDictionary
	d.AddText("a\n\nb")
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (empty line is a line)", d.Len())
	}
	if _, ok := d.IndexOf(""); !ok {
		t.Error("empty line not stored")
	}
}

func TestBlobDictionaryDedup(t *testing.T) {
	var d BlobDictionary
	a := []uint32{0x07230203, 1, 2, 3}
	b := []uint32{0x07230203, 4, 5, 6}

	i0 := d.AddBlob(a)
	i1 := d.AddBlob(b)
	// Same content in a fresh slice must return the first index.
	i2 := d.AddBlob([]uint32{0x07230203, 1, 2, 3})

	if i0 != 0 || i1 != 1 {
		t.Errorf("indices = %d, %d, want 0, 1", i0, i1)
	}
	if i2 != i0 {
		t.Errorf("duplicate content got index %d, want %d", i2, i0)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if got := d.Blob(1); len(got) != 4 || got[1] != 4 {
		t.Errorf("Blob(1) = %v", got)
	}
}
