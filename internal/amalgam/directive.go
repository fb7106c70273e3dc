package amalgam

import "regexp"

// lineKind classifies a template or header line.
type lineKind int

const (
	lineText lineKind = iota
	lineComment
	lineSystemInclude
	lineLocalInclude
)

// Patterns match at the start of the line only; anything after the closing
// delimiter is ignored.
var (
	commentPattern       = regexp.MustCompile(`^\s*//`)
	systemIncludePattern = regexp.MustCompile(`^\s*#\s*include\s+<([^>]+)>`)
	localIncludePattern  = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)
)

// classifyLine returns the kind of line and, for includes, the captured name.
func classifyLine(line string) (lineKind, string) {
	if commentPattern.MatchString(line) {
		return lineComment, ""
	}
	if m := systemIncludePattern.FindStringSubmatch(line); m != nil {
		return lineSystemInclude, m[1]
	}
	if m := localIncludePattern.FindStringSubmatch(line); m != nil {
		return lineLocalInclude, m[1]
	}
	return lineText, ""
}

func (k lineKind) String() string {
	switch k {
	case lineComment:
		return "comment"
	case lineSystemInclude:
		return "system-include"
	case lineLocalInclude:
		return "local-include"
	default:
		return "text"
	}
}
