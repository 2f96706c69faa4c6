package calls

import (
	"fmt"
	"strings"
)

const (
	usernameMinLen = 5
	usernameMaxLen = 32
)

// ValidateUsername checks raw against the public-channel-handle grammar and
// returns the normalized handle (leading "@" stripped). Rejections happen
// here, before any network call.
func ValidateUsername(raw string) (string, error) {
	username := strings.TrimPrefix(strings.TrimSpace(raw), "@")

	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return "", fmt.Errorf("%w: must be %d-%d characters", ErrInvalidUsername, usernameMinLen, usernameMaxLen)
	}
	if !isLetter(username[0]) {
		return "", fmt.Errorf("%w: must start with a letter", ErrInvalidUsername)
	}
	last := username[len(username)-1]
	if !isLetter(last) && !isDigit(last) {
		return "", fmt.Errorf("%w: must end with a letter or digit", ErrInvalidUsername)
	}
	for i := 0; i < len(username); i++ {
		c := username[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return "", fmt.Errorf("%w: contains %q", ErrInvalidUsername, rune(c))
		}
	}
	if strings.Contains(username, "__") {
		return "", fmt.Errorf("%w: consecutive underscores", ErrInvalidUsername)
	}
	return username, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
