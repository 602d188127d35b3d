package resume

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownName is returned when no line looks like a name.
const UnknownName = "Unknown"

const maxNameTokens = 4

// GuessName returns the first short, capitalised line of the resume. Most
// resumes open with the candidate's name, so this is right often enough to
// label a ranking, but it is a guess.
func GuessName(text string) string {
	for _, line := range lines(text) {
		line = strings.TrimSpace(line)
		if looksLikeName(line) {
			return line
		}
	}

	return UnknownName
}

func looksLikeName(line string) bool {
	if line == "" {
		return false
	}
	if len(strings.Fields(line)) > maxNameTokens {
		return false
	}

	first, _ := utf8.DecodeRuneInString(line)
	return unicode.IsUpper(first)
}

func lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
