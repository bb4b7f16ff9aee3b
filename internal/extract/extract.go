// Package extract turns Go source files into co-occurrence observations.
//
// Each function or method declaration yields one observation: the set of
// syntactic pattern kinds appearing in its body (the row side) paired with
// the set of identifier tokens it mentions (the column side). The
// accumulator in internal/cooccur consumes these pairs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/blackwell-systems/idiomine/internal/cooccur"
)

// DefaultMaxFileSize is the largest file the extractor will parse (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// ErrFileTooLarge is returned when input content exceeds the maximum file size.
var ErrFileTooLarge = errors.New("extract: file exceeds maximum size limit")

// Observation is one ingestion unit: the pattern kinds and identifier
// tokens that occurred together in a single function.
type Observation struct {
	Function    string
	Patterns    cooccur.Set[string]
	Identifiers cooccur.Set[string]
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxFileSize sets the maximum file size the extractor will accept.
func WithMaxFileSize(bytes int64) Option {
	return func(e *Extractor) {
		if bytes > 0 {
			e.maxFileSize = bytes
		}
	}
}

// WithIgnoredIdentifiers installs a predicate for identifier tokens to drop
// from observations (e.g. ubiquitous names that drown the rankings).
func WithIgnoredIdentifiers(ignored func(string) bool) Option {
	return func(e *Extractor) {
		e.ignored = ignored
	}
}

// Extractor parses Go source with tree-sitter and emits one observation per
// function or method declaration. A fresh tree-sitter parser is created per
// Extract call, so an Extractor is safe to share between goroutines.
type Extractor struct {
	maxFileSize int64
	ignored     func(string) bool
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxFileSize: DefaultMaxFileSize,
		ignored:     func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile reads and extracts observations from the file at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]Observation, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	obs, err := e.Extract(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return obs, nil
}

// Extract parses src as Go source and returns one observation per function
// or method declaration. Functions without a body (declarations only) and
// functions whose body mentions no identifiers still produce observations;
// empty sets simply contribute nothing to the joint table.
func (e *Extractor) Extract(ctx context.Context, src []byte) ([]Observation, error) {
	if int64(len(src)) > e.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(src))
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var observations []Observation
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_declaration", "method_declaration":
			observations = append(observations, e.observe(child, src))
		}
	}

	return observations, nil
}

// observe collects the pattern kinds and identifier tokens of one function
// declaration subtree.
func (e *Extractor) observe(fn *sitter.Node, src []byte) Observation {
	obs := Observation{
		Patterns:    cooccur.NewSet[string](),
		Identifiers: cooccur.NewSet[string](),
	}

	for i := 0; i < int(fn.NamedChildCount()); i++ {
		child := fn.NamedChild(i)
		if child.Type() == "identifier" || child.Type() == "field_identifier" {
			// The function's own name labels the observation, it is not an
			// element of it.
			obs.Function = string(src[child.StartByte():child.EndByte()])
			continue
		}
		e.collect(child, src, &obs)
	}

	return obs
}

func (e *Extractor) collect(n *sitter.Node, src []byte, obs *Observation) {
	kind := n.Type()
	if isIdentifierKind(kind) {
		name := string(src[n.StartByte():n.EndByte()])
		if !e.ignored(name) {
			obs.Identifiers.Insert(name)
		}
	} else {
		obs.Patterns.Insert(kind)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.collect(n.NamedChild(i), src, obs)
	}
}

// isIdentifierKind reports whether a named node kind carries an identifier
// token rather than a syntactic pattern.
func isIdentifierKind(kind string) bool {
	return strings.HasSuffix(kind, "identifier")
}
