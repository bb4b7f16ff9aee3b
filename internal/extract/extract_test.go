package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sample = `package sample

func Sum(items []int) int {
	total := 0
	for _, item := range items {
		total += item
	}
	return total
}

func Greet(name string) string {
	if name == "" {
		return "hello"
	}
	return "hello, " + name
}
`

func TestExtractOneObservationPerFunction(t *testing.T) {
	e := New()

	obs, err := e.Extract(context.Background(), []byte(sample))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}

	if obs[0].Function != "Sum" || obs[1].Function != "Greet" {
		t.Errorf("expected functions Sum and Greet, got %q and %q", obs[0].Function, obs[1].Function)
	}

	if !obs[0].Patterns.Contains("for_statement") {
		t.Errorf("expected Sum to contain a for_statement pattern, got %v", obs[0].Patterns)
	}
	if !obs[0].Identifiers.Contains("total") || !obs[0].Identifiers.Contains("items") {
		t.Errorf("expected Sum identifiers to include total and items, got %v", obs[0].Identifiers)
	}

	if !obs[1].Patterns.Contains("if_statement") {
		t.Errorf("expected Greet to contain an if_statement pattern, got %v", obs[1].Patterns)
	}
	if obs[1].Patterns.Contains("for_statement") {
		t.Errorf("Greet has no loop, got patterns %v", obs[1].Patterns)
	}
	if !obs[1].Identifiers.Contains("name") {
		t.Errorf("expected Greet identifiers to include name, got %v", obs[1].Identifiers)
	}
}

func TestExtractFunctionNameIsNotAnElement(t *testing.T) {
	e := New()

	obs, err := e.Extract(context.Background(), []byte(sample))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if obs[0].Identifiers.Contains("Sum") {
		t.Errorf("function name should label the observation, not join its identifier set")
	}
}

func TestExtractIgnoredIdentifiers(t *testing.T) {
	e := New(WithIgnoredIdentifiers(func(name string) bool {
		return name == "total"
	}))

	obs, err := e.Extract(context.Background(), []byte(sample))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if obs[0].Identifiers.Contains("total") {
		t.Errorf("expected ignored identifier to be dropped, got %v", obs[0].Identifiers)
	}
	if !obs[0].Identifiers.Contains("items") {
		t.Errorf("expected non-ignored identifiers to survive, got %v", obs[0].Identifiers)
	}
}

func TestExtractMethodDeclarations(t *testing.T) {
	src := `package sample

type Counter struct{ n int }

func (c *Counter) Inc() { c.n++ }
`
	e := New()

	obs, err := e.Extract(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation for the method, got %d", len(obs))
	}
	if obs[0].Function != "Inc" {
		t.Errorf("expected method name Inc, got %q", obs[0].Function)
	}
}

func TestExtractRejectsOversizedInput(t *testing.T) {
	e := New(WithMaxFileSize(16))

	_, err := e.Extract(context.Background(), []byte(sample))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestExtractFileMissing(t *testing.T) {
	e := New()

	_, err := e.ExtractFile(context.Background(), "/does/not/exist.go")
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}
