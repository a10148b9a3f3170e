package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bracketed token",
			input:    "[TC-ABC-1.2] Foo",
			expected: "TC-ABC-1.2",
		},
		{
			name:     "bare token",
			input:    "TC-ABC-1.2 Foo",
			expected: "TC-ABC-1.2",
		},
		{
			name:     "token embedded mid-name",
			input:    "Verification of TC-XYZ-42.7 behavior",
			expected: "TC-XYZ-42.7",
		},
		{
			name:     "no token returns name unchanged",
			input:    "Some manual test",
			expected: "Some manual test",
		},
		{
			name:     "empty name degrades to empty identifier",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractIdentifier(tt.input))
		})
	}
}

func TestDeriveClassName(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   string
	}{
		{
			name:       "dashes and dots collapse to underscores",
			identifier: "TC-ABC-1.2",
			expected:   "TC_ABC_1_2",
		},
		{
			name:       "maximal non-alphanumeric runs collapse to one separator",
			identifier: "TC--ABC..1",
			expected:   "TC_ABC_1",
		},
		{
			name:       "spaces are separators too",
			identifier: "Some manual test",
			expected:   "Some_manual_test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveClassName(tt.identifier))
		})
	}
}

func TestNewCaseType(t *testing.T) {
	md := &TestMetadata{
		Name:        "[TC-ABC-1.2] Foo",
		Description: "example",
		Steps:       []string{"one", "two"},
	}

	ct := NewCaseType(md, "1.0.0")
	require.NotNil(t, ct)
	assert.Equal(t, "TC-ABC-1.2", ct.Identifier)
	assert.Equal(t, "TC_ABC_1_2", ct.ClassName)
	assert.Equal(t, "TC-ABC-1.2", ct.Title, "title mirrors the identifier")
	assert.Equal(t, "1.0.0", ct.Version)
	assert.Same(t, md, ct.Metadata)
}

// Class-name derivation is not injective; distinct identifiers may
// collide. The factory keeps both; the catalog only warns.
func TestNewCaseTypeClassNameCollision(t *testing.T) {
	a := NewCaseType(&TestMetadata{Name: "TC-A.B-1"}, "v")
	b := NewCaseType(&TestMetadata{Name: "TC-A-B.1"}, "v")

	assert.NotEqual(t, a.Identifier, b.Identifier)
	assert.Equal(t, a.ClassName, b.ClassName)
}
