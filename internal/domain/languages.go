package domain

import (
	"strings"
)

// Languages lists the known language codes in catalog order.
var Languages = []string{
	"html",
	"css",
	"javascript",
	"java",
	"php",
	"dsa",
	"python",
	"nextjs",
	"nodejs",
	"react",
	"c",
	"cpp",
	"csharp",
	"operating_system",
}

// Levels lists the known difficulty levels.
var Levels = []string{"easy", "medium", "hard"}

var languageLabels = map[string]string{
	"html":             "HTML",
	"css":              "CSS",
	"javascript":       "JavaScript",
	"java":             "Java",
	"php":              "PHP",
	"dsa":              "DSA",
	"python":           "Python",
	"nextjs":           "Next.js",
	"nodejs":           "Node.js",
	"react":            "React",
	"c":                "C",
	"cpp":              "C++",
	"csharp":           "C#",
	"operating_system": "Operating System",
}

// languageAliases maps shorthand codes (as found in some quiz_id values) to known codes.
var languageAliases = map[string]string{
	"js":    "javascript",
	"py":    "python",
	"cs":    "csharp",
	"c#":    "csharp",
	"c++":   "cpp",
	"os":    "operating_system",
	"node":  "nodejs",
	"next":  "nextjs",
	"algo":  "dsa",
	"jsx":   "react",
	"html5": "html",
	"css3":  "css",
}

// Normalise trims and lower-cases a language or level code.
func Normalise(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func IsKnownLanguage(code string) bool { return contains(Languages, code) }

func IsKnownLevel(code string) bool { return contains(Levels, code) }

// ResolveLanguage maps a possibly abbreviated code onto a known language:
// exact match, then the alias table, then a unique prefix match.
func ResolveLanguage(code string) (string, bool) {
	code = Normalise(code)
	if code == "" {
		return "", false
	}
	if IsKnownLanguage(code) {
		return code, true
	}
	if alias, ok := languageAliases[code]; ok {
		return alias, true
	}
	match := ""
	for _, lang := range Languages {
		if strings.HasPrefix(lang, code) {
			if match != "" {
				return "", false
			}
			match = lang
		}
	}
	return match, match != ""
}

// QuizKey builds the canonical quiz id for a pair.
func QuizKey(language, level string) string {
	return Normalise(language) + "_" + Normalise(level)
}

// SplitQuizID splits "<language>_<level>" on the last separator.
func SplitQuizID(quizID string) (language, level string, ok bool) {
	idx := strings.LastIndex(quizID, "_")
	if idx <= 0 || idx == len(quizID)-1 {
		return "", "", false
	}
	return Normalise(quizID[:idx]), Normalise(quizID[idx+1:]), true
}

// LanguageLabel returns the display name for a language code.
func LanguageLabel(code string) string {
	key := Normalise(code)
	if key == "" {
		return ""
	}
	if label, ok := languageLabels[key]; ok {
		return label
	}
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
