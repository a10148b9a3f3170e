package types

import (
	"regexp"
)

// identifierPattern finds the canonical test id in a script name.
// Some scripts use [TC-XX-1.1] and others a bare TC-XX-1.1.
var identifierPattern = regexp.MustCompile(`TC-[^\s\]]*`)

// nonAlphanumeric matches every maximal run of characters that cannot
// appear in a safe type name.
var nonAlphanumeric = regexp.MustCompile(`[^0-9a-zA-Z]+`)

// CaseType is the registrable blueprint synthesized from one parsed
// test-definition script. It is created once per script at catalog load
// time and lives for the lifetime of the catalog.
type CaseType struct {
	Identifier string
	ClassName  string
	Version    string
	Title      string
	Metadata   *TestMetadata
}

// NewCaseType synthesizes a case type from parsed metadata.
// The identifier is the canonical test-id token when the name contains
// one, otherwise the full name verbatim. An empty name degrades to an
// empty identifier; allowed but deprecated.
func NewCaseType(md *TestMetadata, version string) *CaseType {
	identifier := ExtractIdentifier(md.Name)
	return &CaseType{
		Identifier: identifier,
		ClassName:  DeriveClassName(identifier),
		Version:    version,
		Title:      identifier,
		Metadata:   md,
	}
}

// ExtractIdentifier returns the TC-... token embedded in name, or name
// unchanged when no token is present.
func ExtractIdentifier(name string) string {
	if match := identifierPattern.FindString(name); match != "" {
		return match
	}
	return name
}

// DeriveClassName collapses every run of non-alphanumeric characters to a
// single underscore. Not injective: distinct identifiers can collide.
func DeriveClassName(identifier string) string {
	return nonAlphanumeric.ReplaceAllString(identifier, "_")
}
