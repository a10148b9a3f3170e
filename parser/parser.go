// Package parser turns test-definition scripts into structured metadata.
// A script is a YAML document carrying the test name, description,
// applicability (PICS) tags and the ordered step labels.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conformd/sdk-bridge/types"
)

// ParseError indicates a malformed test-definition script. Catalog
// loading skips and logs such files without aborting the whole load.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing test definition %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if the error is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return err != nil && errors.As(err, &parseErr)
}

// ParseFile reads and parses one test-definition script.
func ParseFile(path string) (*types.TestMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	md, err := parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	md.Path = path
	return md, nil
}

func parse(data []byte) (*types.TestMetadata, error) {
	var md types.TestMetadata
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&md); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty test definition")
		}
		return nil, err
	}

	// An empty name degrades to an empty identifier downstream; steps
	// must at least be declared for the file to count as a definition.
	if md.Steps == nil {
		return nil, errors.New("test definition declares no steps")
	}
	return &md, nil
}
