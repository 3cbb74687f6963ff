package main

import (
	"testing"

	"github.com/gogpu/matc"
)

func TestParseDefinition(t *testing.T) {
	raw := []byte(`// a comment
{
    "material": {
        "name": "demo",
        "shadingModel": "lit",
        "blending": "transparent",
        "requires": ["uv0"],
        "parameters": [
            { "type": "float4", "name": "tint" },
            { "type": "sampler2d", "name": "base", "precision": "medium" },
        ],
    },
    "fragment": [
        "material.baseColor = materialParams.tint;",
    ],
}`)
	def, err := parseDefinition(raw)
	if err != nil {
		t.Fatal(err)
	}
	if def.Material.Name != "demo" {
		t.Errorf("name = %q", def.Material.Name)
	}
	if len(def.Material.Parameters) != 2 {
		t.Fatalf("parameters = %+v", def.Material.Parameters)
	}
	if string(def.Fragment) != "material.baseColor = materialParams.tint;" {
		t.Errorf("fragment = %q", def.Fragment)
	}

	b := matc.NewMaterialBuilder()
	if err := def.apply(b); err != nil {
		t.Fatal(err)
	}
	if b.Err() != nil {
		t.Fatal(b.Err())
	}
}

func TestParseDefinitionStringCode(t *testing.T) {
	def, err := parseDefinition([]byte(`{"fragment": "material.baseColor = c;"}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(def.Fragment) != "material.baseColor = c;" {
		t.Errorf("fragment = %q", def.Fragment)
	}
}

func TestApplyRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"shading", `{"material": {"shadingModel": "shiny"}}`},
		{"blending", `{"material": {"blending": "sometimes"}}`},
		{"parameter type", `{"material": {"parameters": [{"type": "quaternion", "name": "q"}]}}`},
		{"attribute", `{"material": {"requires": ["uv7"]}}`},
		{"feature level", `{"material": {"featureLevel": 9}}`},
		{"variant filter", `{"material": {"variantFilter": ["tessellation"]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := parseDefinition([]byte(tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			if err := def.apply(matc.NewMaterialBuilder()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyOutputs(t *testing.T) {
	def, err := parseDefinition([]byte(`{
        "material": {
            "domain": "postprocess",
            "outputs": [
                { "name": "color", "target": "color", "type": "float4" },
                { "name": "extra", "target": "color", "type": "float2" }
            ]
        }
    }`))
	if err != nil {
		t.Fatal(err)
	}
	b := matc.NewMaterialBuilder()
	if err := def.apply(b); err != nil {
		t.Fatal(err)
	}
}
