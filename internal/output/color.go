package output

import (
	"io"
	"os"
	"slices"
)

// ColorModes lists the accepted --color values.
var ColorModes = []string{"auto", "always", "never"}

// ValidColorMode reports whether mode is one of ColorModes.
func ValidColorMode(mode string) bool {
	return slices.Contains(ColorModes, mode)
}

// ResolveColorMode determines whether human output is styled:
//   - "never":  false
//   - "always": true
//   - anything else: the detected isTTY value
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for an *os.File that is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
