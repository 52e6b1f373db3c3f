// Package testutil holds helpers shared by the package tests: golden JSON
// files and float comparisons.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Update rewrites golden files instead of comparing against them:
//
//	go test ./... -update
var Update = flag.Bool(
	"update",
	false,
	"update golden files",
)

//
// --- Golden file helpers ---
//

func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

func writeGolden(t *testing.T, name string, b []byte) {
	t.Helper()
	if err := os.MkdirAll("testdata", 0755); err != nil {
		t.Fatalf("failed to create testdata dir: %v", err)
	}
	if err := os.WriteFile(goldenPath(name), b, 0644); err != nil {
		t.Fatalf("failed to write golden file: %v", err)
	}
}

func loadGolden(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(goldenPath(name))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	return b
}

// CompareWithGolden marshals v as indented JSON and compares it with
// testdata/<name>.golden.
func CompareWithGolden(t *testing.T, name string, v any) {
	t.Helper()

	actual, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal actual JSON: %v", err)
	}
	CompareBytesWithGolden(t, name, actual)
}

// CompareBytesWithGolden compares raw output (CSV, text) with a golden file.
func CompareBytesWithGolden(t *testing.T, name string, actual []byte) {
	t.Helper()

	if *Update {
		writeGolden(t, name, actual)
		return
	}

	expected := loadGolden(t, name)

	if !bytes.Equal(expected, actual) {
		t.Fatalf("golden mismatch for %s\nexpected:\n%s\nactual:\n%s",
			name, string(expected), string(actual))
	}
}

//
// --- Float helpers ---
//

// RelClose reports whether got is within rel relative tolerance of want.
func RelClose(got, want, rel float64) bool {
	if want == 0 {
		return math.Abs(got) <= rel
	}
	return math.Abs(got-want) <= rel*math.Abs(want)
}

// AbsClose reports whether |got-want| <= tol.
func AbsClose(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// AssertRel fails the test when got is not within rel of want.
func AssertRel(t *testing.T, label string, got, want, rel float64) {
	t.Helper()
	if !RelClose(got, want, rel) {
		t.Fatalf("%s: expected %.8f (rel %g), got %.8f", label, want, rel, got)
	}
}

// AssertAbs fails the test when got is not within tol of want.
func AssertAbs(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if !AbsClose(got, want, tol) {
		t.Fatalf("%s: expected %.8f (abs %g), got %.8f", label, want, tol, got)
	}
}
