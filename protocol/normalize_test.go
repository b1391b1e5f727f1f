package protocol

import (
	"reflect"
	"testing"
)

func TestParseCandidateStrict(t *testing.T) {
	got := ParseCandidate(`{"name": "test", "value": 42, "items": [1, 2, 3]}`)
	if got == nil {
		t.Fatal("strict parse returned nil")
	}
	if got["name"] != "test" {
		t.Errorf("name = %v", got["name"])
	}
	if got["value"] != float64(42) {
		t.Errorf("value = %v", got["value"])
	}
}

// A strictly valid object and the same object with a comment and trailing
// comma injected must parse to the identical mapping.
func TestParseCandidateNoiseRoundTrip(t *testing.T) {
	clean := ParseCandidate(`{"name": "test", "value": 42}`)
	dirty := ParseCandidate(`{
		"name": "test", // the name
		"value": 42,   /* multi-line
		                  comment */
	}`)

	if dirty == nil {
		t.Fatal("lenient parse returned nil")
	}
	if !reflect.DeepEqual(clean, dirty) {
		t.Errorf("lenient parse %v != strict parse %v", dirty, clean)
	}
}

func TestParseCandidateCommentMarkersInsideStrings(t *testing.T) {
	got := ParseCandidate(`{"url": "http://example.com/a", "glob": "/* keep */"}`)
	if got == nil {
		t.Fatal("parse returned nil")
	}
	if got["url"] != "http://example.com/a" {
		t.Errorf("url = %v, comment stripping touched a string literal", got["url"])
	}
	if got["glob"] != "/* keep */" {
		t.Errorf("glob = %v", got["glob"])
	}
}

func TestParseCandidateTrailingCommaInArray(t *testing.T) {
	got := ParseCandidate(`{"items": [1, 2, 3,],}`)
	if got == nil {
		t.Fatal("parse returned nil")
	}
	items, ok := got["items"].([]any)
	if !ok || len(items) != 3 {
		t.Errorf("items = %v", got["items"])
	}
}

func TestParseCandidateUnrecoverable(t *testing.T) {
	for _, span := range []string{
		"",
		"not json at all",
		`{"a": }`,
	} {
		if got := ParseCandidate(span); got != nil {
			t.Errorf("ParseCandidate(%q) = %v, want nil", span, got)
		}
	}
}

func TestCleanJSONLineComment(t *testing.T) {
	got := CleanJSON("{\"a\": 1, // note\n\"b\": 2}")
	want := "{\"a\": 1, \n\"b\": 2}"
	if got != want {
		t.Errorf("CleanJSON = %q, want %q", got, want)
	}
}
