package types

// TestMetadata is the parsed description of a single test-definition
// script. It is produced by the parser and never mutated afterwards.
// Step ordering is significant and preserved verbatim from the source.
type TestMetadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	PICS        []string `yaml:"PICS"`
	Steps       []string `yaml:"steps"`

	// Path records the script the metadata was parsed from.
	Path string `yaml:"-"`
}

// HasPICS reports whether the metadata declares the given applicability tag.
func (m *TestMetadata) HasPICS(tag string) bool {
	for _, p := range m.PICS {
		if p == tag {
			return true
		}
	}
	return false
}
