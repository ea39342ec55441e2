package domain

import (
	"regexp"
	"strings"
)

// Windows/Linux/macOS reserved filename characters.
var reservedChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeDirName strips filesystem-reserved characters from a reciter
// display name so it can be used as a directory name on any platform.
func SanitizeDirName(name string) string {
	res := reservedChars.ReplaceAllString(name, "")
	return strings.TrimSpace(res)
}
