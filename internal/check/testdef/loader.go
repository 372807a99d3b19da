package testdef

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	errNotAMapping  = errors.New("test file must be a mapping of test names to declarations")
	errEmptyBody    = errors.New("declaration body is empty")
	errNotADocument = errors.New("unexpected yaml document structure")
)

// Loader parses test declaration files.
type Loader interface {
	LoadFile(path string) (*Collection, error)
	Parse(data []byte) (*Collection, error)
}

type loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a new test declaration loader.
func NewLoader(log logrus.FieldLogger) Loader {
	return &loader{
		log: log.WithField("component", "testdef_loader"),
	}
}

// LoadFile reads and parses one test file.
func (l *loader) LoadFile(path string) (*Collection, error) {
	l.log.WithField("path", path).Debug("loading test file")

	data, err := os.ReadFile(path) //nolint:gosec // G304: reading test declarations from discovered paths
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	collection, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return collection, nil
}

// Parse decodes a test file body into a collection, preserving document
// order. Declarations are not validated here; executability is decided at
// run time so an invalid test is reported as a failure instead of
// silently vanishing from the report.
func (l *loader) Parse(data []byte) (*Collection, error) {
	collection := NewCollection()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	// A zero node means an empty file, which is a valid empty collection.
	if root.Kind == 0 {
		return collection, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errNotADocument
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return collection, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, errNotAMapping
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valueNode := doc.Content[i+1]

		var decl Declaration
		if err := valueNode.Decode(&decl); err != nil {
			return nil, fmt.Errorf("decoding test %q: %w", keyNode.Value, err)
		}
		decl.Name = keyNode.Value

		collection.Set(&decl)
	}

	return collection, nil
}

// ParseDeclaration decodes a single declaration body, as passed on the
// command line for ad-hoc runs. Accepts YAML and therefore JSON.
func ParseDeclaration(data []byte) (*Declaration, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing declaration: %w", err)
	}

	if node.Kind == 0 {
		return nil, errEmptyBody
	}

	var decl Declaration
	if err := node.Decode(&decl); err != nil {
		return nil, fmt.Errorf("decoding declaration: %w", err)
	}

	return &decl, nil
}
