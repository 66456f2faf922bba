package htmlwriter

import "strings"

// Attr is a single attribute of an opening tag.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for Attr{Key: key, Value: value}.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// appendAttrs renders attrs as ` k1="v1" k2="v2"` onto b.
// Values are not escaped.
func appendAttrs(b *strings.Builder, attrs []Attr) {
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(strings.Trim(attr.Key, "_"))
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
}
