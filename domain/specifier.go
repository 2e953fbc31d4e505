package domain

import "strings"

// Specifier is a package name paired with a version, range or dist-tag,
// written in the registry's name@spec notation.
type Specifier struct {
	Name string
	Spec string
}

// ParseSpecifier splits raw on its last "@" so that scoped names such as
// "@types/node@20.1.0" keep their leading scope marker. When raw carries
// no version the Spec field is left empty.
func ParseSpecifier(raw string) Specifier {
	idx := strings.LastIndex(raw, "@")
	if idx <= 0 {
		return Specifier{Name: raw}
	}
	return Specifier{Name: raw[:idx], Spec: raw[idx+1:]}
}

// String renders the specifier back into name@spec notation.
func (s Specifier) String() string {
	if s.Spec == "" {
		return s.Name
	}
	return s.Name + "@" + s.Spec
}
