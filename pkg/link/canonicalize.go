package link

import (
	"errors"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes an internal URL path:
//   - ensure a leading slash
//   - collapse repeated slashes (/blog//post → /blog/post)
//   - drop "." segments and resolve ".." segments
//   - drop the trailing slash, except for root
//
// Paths with a backslash, a NUL byte, a malformed percent-escape, or a ".."
// that climbs above root are rejected.
func CanonicalizePath(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	var result []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return "", ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	return "/" + strings.Join(result, "/"), nil
}

// validatePercentEscapes checks that every % is followed by two hex digits.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
