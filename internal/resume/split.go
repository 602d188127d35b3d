package resume

import "strings"

// Delimiter separates resumes pasted into a single block.
const Delimiter = "\n---\n"

// Split breaks a pasted block into individual resumes on lines holding only
// three dashes. Segments are trimmed and empty ones dropped.
func Split(pasted string) []string {
	pasted = strings.ReplaceAll(pasted, "\r\n", "\n")
	if strings.TrimSpace(pasted) == "" {
		return nil
	}

	var resumes []string
	for _, segment := range strings.Split(pasted, Delimiter) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		resumes = append(resumes, segment)
	}

	return resumes
}
