package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, special
// characters, unicode, whitespace and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "seed post title",
			input: "Right to Repair in Digital Age",
			want:  "right-to-repair-in-digital-age",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "already a slug",
			input: "future-of-open-source-finance",
			want:  "future-of-open-source-finance",
		},

		// --- Runs collapse to one hyphen ---
		{
			name:  "punctuation between words",
			input: "Hello, World! 2026",
			want:  "hello-world-2026",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello-world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello-world",
		},
		{
			name:  "existing hyphens",
			input: "hello---world",
			want:  "hello-world",
		},
		{
			name:  "version number",
			input: "Version 2.0.1",
			want:  "version-2-0-1",
		},

		// --- Edges are not trimmed ---
		{
			name:  "trailing punctuation",
			input: "What is FOSS?",
			want:  "what-is-foss-",
		},
		{
			name:  "leading space",
			input: "  Go",
			want:  "-go",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "-",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},

		// --- Unicode is outside [a-z0-9] ---
		{
			name:  "accented letters",
			input: "Café Résumé",
			want:  "caf-r-sum-",
		},
		{
			name:  "uppercase accented lowercases first",
			input: "ÉCOLE 42",
			want:  "-cole-42",
		},

		// --- Markup never survives ---
		{
			name:  "script tag",
			input: "<script>alert(1)</script>",
			want:  "-script-alert-1-script-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{
		"hello-world",
		"my-blog-post-2026",
		"a",
		"123",
		"trailing-",
	}

	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			got := Generate(s)
			if got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestGenerate_ConsistentCase verifies that slugs are always lowercase
// regardless of input casing.
func TestGenerate_ConsistentCase(t *testing.T) {
	inputs := []string{
		"HELLO WORLD",
		"Hello World",
		"hElLo WoRlD",
		"hello world",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := Generate(input)
			if got != "hello-world" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "hello-world")
			}
		})
	}
}
