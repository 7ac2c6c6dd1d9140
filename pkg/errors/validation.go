package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidatePackageName validates a registry package name before it is placed
// into a request path. It rejects names that could be used for path traversal
// or injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 214 characters (the npm limit)
//
// Legacy npm packages with upper-case names remain valid.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	const maxNameLength = 214
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"?",    // Query injection
		"#",    // Fragment injection
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	// Only scoped names ("@scope/name") may contain a slash.
	if strings.Contains(name, "/") {
		scope, pkg, _ := strings.Cut(name, "/")
		if !strings.HasPrefix(scope, "@") || len(scope) < 2 || pkg == "" || strings.Contains(pkg, "/") {
			return New(ErrCodeInvalidPackage, "invalid scoped package name: %q", name)
		}
	}

	return nil
}

// ValidateURL validates a registry base URL.
// It ensures the URL parses and uses an http or https scheme with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
