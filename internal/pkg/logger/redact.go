package logger

import (
	"fmt"
	"strings"
)

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactRaw replaces a raw sample value with a length marker so logs show
// that something arrived without showing what it was.
func RedactRaw(val string) string {
	return fmt.Sprintf("<redacted:%d chars>", len(val))
}
