package project

import "testing"

func TestSlugDeterminism(t *testing.T) {
	const (
		title = "A really $cool %20 Title with ;;lots asdf\n of weird // chars"
		want  = "a-really-cool-20-title-with-lots-asdf-of-weird--chars"
	)

	got := Slug(title)
	if got != want {
		t.Fatalf("Slug(%q) = %q, want %q", title, got, want)
	}

	// Determinism: repeated calls on the same input always agree.
	if got2 := Slug(title); got2 != got {
		t.Fatalf("Slug is not deterministic: %q != %q", got, got2)
	}
}

func TestSlugSimple(t *testing.T) {
	cases := map[string]string{
		"Hello World":  "hello-world",
		"  padded  ":   "padded",
		"UPPER-CASE":   "upper-case",
		"":             "",
		"just!!!punct": "just-punct",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
