package domain

import "testing"

func TestResolveLanguage(t *testing.T) {
	cases := map[string]string{
		"python":           "python",
		" Python ":         "python",
		"js":               "javascript",
		"c++":              "cpp",
		"operating_system": "operating_system",
		"oper":             "operating_system",
		"react":            "react",
		"nod":              "nodejs",
	}
	for in, want := range cases {
		got, ok := ResolveLanguage(in)
		if !ok || got != want {
			t.Fatalf("ResolveLanguage(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	for _, in := range []string{"", "ja", "cobol"} {
		if got, ok := ResolveLanguage(in); ok {
			t.Fatalf("expected %q to be unresolved, got %q", in, got)
		}
	}
}

func TestSplitQuizID(t *testing.T) {
	lang, level, ok := SplitQuizID("operating_system_hard")
	if !ok || lang != "operating_system" || level != "hard" {
		t.Fatalf("unexpected split: %q %q %v", lang, level, ok)
	}
	for _, bad := range []string{"", "python", "_easy", "python_"} {
		if _, _, ok := SplitQuizID(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestLanguageLabel(t *testing.T) {
	if got := LanguageLabel("cpp"); got != "C++" {
		t.Fatalf("expected C++, got %q", got)
	}
	if got := LanguageLabel("rust_lang"); got != "Rust Lang" {
		t.Fatalf("expected fallback title, got %q", got)
	}
	if got := LanguageLabel(""); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}
