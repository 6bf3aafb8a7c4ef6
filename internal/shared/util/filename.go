package util

import "strings"

// DownloadFileName builds "<prefix>_<Company_Name>.pdf", replacing anything
// that is not a letter, digit, dash or underscore so it is safe inside a
// Content-Disposition header.
func DownloadFileName(prefix, company string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(company) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "document"
	}
	return prefix + "_" + name + ".pdf"
}
