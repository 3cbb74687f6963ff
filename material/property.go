package material

import "strings"

// Property is one recognized field of the MaterialInputs structure. The
// compiler records which properties the user shader writes so the runtime
// can cheaply query them.
type Property uint8

const (
	PropertyBaseColor Property = iota
	PropertyRoughness
	PropertyMetallic
	PropertyReflectance
	PropertyAmbientOcclusion
	PropertyClearCoat
	PropertyClearCoatRoughness
	PropertyClearCoatNormal
	PropertyAnisotropy
	PropertyAnisotropyDirection
	PropertyThickness
	PropertySubsurfacePower
	PropertySubsurfaceColor
	PropertySheenColor
	PropertySheenRoughness
	PropertySpecularColor
	PropertyGlossiness
	PropertyEmissive
	PropertyNormal
	PropertyPostLightingColor
	PropertyAbsorption
	PropertyTransmission
	PropertyIOR

	PropertyCount = 23
)

// propertyNames maps a Property to the MaterialInputs field the user
// shader assigns. Index matches the Property value.
var propertyNames = [PropertyCount]string{
	"baseColor",
	"roughness",
	"metallic",
	"reflectance",
	"ambientOcclusion",
	"clearCoat",
	"clearCoatRoughness",
	"clearCoatNormal",
	"anisotropy",
	"anisotropyDirection",
	"thickness",
	"subsurfacePower",
	"subsurfaceColor",
	"sheenColor",
	"sheenRoughness",
	"specularColor",
	"glossiness",
	"emissive",
	"normal",
	"postLightingColor",
	"absorption",
	"transmission",
	"ior",
}

// Name returns the MaterialInputs field name for the property.
func (p Property) Name() string {
	if int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return "unknown"
}

// PropertyMask is a 64-bit bitmask with one bit per Property.
type PropertyMask uint64

// Set returns the mask with the given property's bit set.
func (m PropertyMask) Set(p Property) PropertyMask {
	return m | 1<<p
}

// Has reports whether the given property's bit is set.
func (m PropertyMask) Has(p Property) bool {
	return m&(1<<p) != 0
}

// DiscoverProperties scans shader source for writes to MaterialInputs
// fields ("material.<name>") and returns the union of the given mask and
// every property found. The scan is purely textual: it looks for the
// field access followed by an assignment on the same statement, which is
// enough for the declarative style material snippets use.
func DiscoverProperties(source string, mask PropertyMask) PropertyMask {
	for rest := source; ; {
		i := strings.Index(rest, "material.")
		if i < 0 {
			break
		}
		rest = rest[i+len("material."):]
		name := leadingIdentifier(rest)
		if name == "" {
			continue
		}
		for p := Property(0); p < PropertyCount; p++ {
			if p.Name() == name {
				mask = mask.Set(p)
				break
			}
		}
	}
	return mask
}

// leadingIdentifier returns the identifier at the start of s, if any.
func leadingIdentifier(s string) string {
	n := 0
	for n < len(s) {
		c := s[n]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			n++
			continue
		}
		break
	}
	return s[:n]
}
