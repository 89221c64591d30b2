package rawjson

import (
	"strings"
	"testing"
)

func TestPrettyReformatsString(t *testing.T) {
	out, err := Pretty(`{"b":1,"a":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\n  \"a\": \"x\"") {
		t.Fatalf("expected indented output, got %q", out)
	}
}

func TestPrettyRejectsInvalid(t *testing.T) {
	if _, err := Pretty("{nope"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestCompact(t *testing.T) {
	out, err := Compact([]byte("{\n  \"a\": 1\n}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"a":1}` {
		t.Fatalf("expected compact form, got %q", out)
	}
}

func TestLooks(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`{"a":1}`, true},
		{`[1,2]`, true},
		{`"text"`, true},
		{"true", true},
		{"42.5", true},
		{"", false},
		{"plain words", false},
		{"{broken", false},
	}
	for _, tc := range cases {
		if got := Looks(tc.in); got != tc.want {
			t.Errorf("Looks(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(`{"a":1}`); got != "object" {
		t.Fatalf("expected object, got %s", got)
	}
	if got := TypeOf(`[1]`); got != "array" {
		t.Fatalf("expected array, got %s", got)
	}
	if got := TypeOf(nil); got != "null" {
		t.Fatalf("expected null, got %s", got)
	}
}
