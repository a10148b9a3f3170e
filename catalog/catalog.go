// Package catalog loads test-definition folders into the harness's
// collection → suite → case hierarchy.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/conformd/sdk-bridge/parser"
	"github.com/conformd/sdk-bridge/types"
)

const (
	// AutomatedSuiteName groups every loaded case; test definitions are
	// organized into a single automated suite per collection.
	AutomatedSuiteName = "Automated Test Suite"

	// SuiteFamilySDK tags suites whose cases execute through the
	// external SDK runner.
	SuiteFamilySDK = "sdk"

	// DefaultFilenamePattern selects test-definition scripts in a folder.
	DefaultFilenamePattern = "TC*"

	scriptExtension = ".yaml"
	versionFileName = ".version"
	unknownVersion  = "unknown"
)

// Suite groups case types of one family, sorted by identifier.
type Suite struct {
	Name       string
	FamilyType string
	Version    string
	Cases      []*types.CaseType
}

// Collection is the top of the catalog hierarchy for one script folder.
type Collection struct {
	Name   string
	Folder string
	Suites []*Suite
}

// Folder describes a test-definition folder to load.
type Folder struct {
	Path    string
	Pattern string // filename glob, defaults to DefaultFilenamePattern
}

// AddCase appends a case to the suite.
func (s *Suite) AddCase(ct *types.CaseType) {
	s.Cases = append(s.Cases, ct)
}

// SortCases orders the suite's cases by test identifier.
func (s *Suite) SortCases() {
	sort.Slice(s.Cases, func(i, j int) bool {
		return s.Cases[i].Identifier < s.Cases[j].Identifier
	})
}

// Cases returns every case in the collection in suite order.
func (c *Collection) Cases() []*types.CaseType {
	var cases []*types.CaseType
	for _, s := range c.Suites {
		cases = append(cases, s.Cases...)
	}
	return cases
}

// LoadCollection parses every test definition in the folder into a new
// collection. Malformed scripts are logged and skipped; they never abort
// the load. The folder's script version is read from its .version file.
func LoadCollection(name string, folder Folder, logger log.Logger) (*Collection, error) {
	files, err := scriptFiles(folder)
	if err != nil {
		return nil, fmt.Errorf("listing test definitions: %w", err)
	}

	version := folderVersion(folder.Path)
	suite := &Suite{
		Name:       AutomatedSuiteName,
		FamilyType: SuiteFamilySDK,
		Version:    version,
	}

	classNames := make(map[string]string)
	for _, file := range files {
		md, err := parser.ParseFile(file)
		if err != nil {
			logger.Error("Skipping malformed test definition", "file", file, "err", err)
			continue
		}

		ct := types.NewCaseType(md, version)
		if prev, ok := classNames[ct.ClassName]; ok {
			// Class-name derivation is not injective; identity stays the
			// identifier, so both cases are kept.
			logger.Warn("Class name collision between test definitions",
				"className", ct.ClassName, "first", prev, "second", ct.Identifier)
		}
		classNames[ct.ClassName] = ct.Identifier
		suite.AddCase(ct)
	}

	suite.SortCases()
	logger.Info("Loaded test collection", "name", name, "version", version, "cases", len(suite.Cases))

	return &Collection{
		Name:   name,
		Folder: folder.Path,
		Suites: []*Suite{suite},
	}, nil
}

// LoadCustomCollection behaves like LoadCollection but returns nil when
// the folder yields no cases at all, so an empty custom folder does not
// surface an empty collection in the catalog.
func LoadCustomCollection(name string, folder Folder, logger log.Logger) (*Collection, error) {
	collection, err := LoadCollection(name, folder, logger)
	if err != nil {
		return nil, err
	}
	if len(collection.Cases()) == 0 {
		return nil, nil
	}
	return collection, nil
}

func scriptFiles(folder Folder) ([]string, error) {
	pattern := folder.Pattern
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	files, err := filepath.Glob(filepath.Join(folder.Path, pattern+scriptExtension))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// folderVersion reads the script version recorded alongside the test
// definitions. Absence degrades to an explicit unknown marker.
func folderVersion(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, versionFileName))
	if err != nil {
		return unknownVersion
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return unknownVersion
	}
	return version
}
