package material

import "testing"

func TestDiscoverProperties(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Property
	}{
		{
			name:   "single assignment",
			source: "material.baseColor = vec4<f32>(1.0);",
			want:   []Property{PropertyBaseColor},
		},
		{
			name: "several assignments",
			source: `material.baseColor = texel;
material.roughness = 1.0 - materialParams.gloss;
material.normal = n;`,
			want: []Property{PropertyBaseColor, PropertyRoughness, PropertyNormal},
		},
		{
			name:   "unknown field ignored",
			source: "material.shinyness = 1.0;",
			want:   nil,
		},
		{
			name:   "prefix does not match longer property",
			source: "material.clearCoatRoughness = 0.2;",
			want:   []Property{PropertyClearCoatRoughness},
		},
		{
			name:   "no material access",
			source: "let x = frame.time;",
			want:   nil,
		},
		{
			name:   "empty source",
			source: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscoverProperties(tt.source, 0)
			var want PropertyMask
			for _, p := range tt.want {
				want = want.Set(p)
			}
			if got != want {
				t.Errorf("DiscoverProperties() = %#x, want %#x", got, want)
			}
		})
	}
}

func TestDiscoverPropertiesPreservesMask(t *testing.T) {
	seed := PropertyMask(0).Set(PropertyEmissive)
	got := DiscoverProperties("material.baseColor = c;", seed)
	if !got.Has(PropertyEmissive) {
		t.Error("seed bit lost")
	}
	if !got.Has(PropertyBaseColor) {
		t.Error("discovered bit missing")
	}
}

func TestPropertyNamesComplete(t *testing.T) {
	seen := make(map[string]Property)
	for p := Property(0); p < PropertyCount; p++ {
		name := p.Name()
		if name == "" || name == "unknown" {
			t.Errorf("property %d has no name", p)
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("properties %d and %d share name %q", prev, p, name)
		}
		seen[name] = p
	}
}
