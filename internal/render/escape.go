package render

import "strings"

// latexReplacer escapes in a single pass, so the braces introduced for a
// backslash are never escaped again.
var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLaTeX makes s safe to place in LaTeX body text.
func EscapeLaTeX(s string) string {
	return latexReplacer.Replace(s)
}
