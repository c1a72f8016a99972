package loader

import (
	"path/filepath"
	"strings"
)

var extLanguages = map[string]string{
	"rs":   "rust",
	"c":    "c",
	"cpp":  "cplusplus",
	"cc":   "cplusplus",
	"cxx":  "cplusplus",
	"hpp":  "cplusplus",
	"py":   "python",
	"js":   "javascript",
	"ts":   "typescript",
	"java": "java",
	"go":   "go",
	"cs":   "csharp",
}

// DetectLanguage maps a file name's extension to a language id.
func DetectLanguage(displayName string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(displayName), ".")
	if ext == "" {
		return "", false
	}
	lang, ok := extLanguages[ext]
	return lang, ok
}

func knownLanguage(lang string) bool {
	for _, l := range extLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
