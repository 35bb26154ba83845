// Package sanitize cleans free text coming from users (commit messages typed
// in the REPL or sent over HTTP and MCP) before it enters the history log.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/rewind/pkg/domain"
)

var (
	// DefaultMaxMessageSize is the largest accepted message, in bytes.
	DefaultMaxMessageSize = 1024
	// EnvMaxMessageSize is the environment variable overriding the default.
	EnvMaxMessageSize = "REWIND_MAX_MESSAGE_SIZE"
)

var (
	ErrMessageTooLarge = errors.New("message exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("message contains invalid UTF-8 sequences")
)

// Message enforces the size limit, validates UTF-8 and strips control
// characters other than tab. Newlines are folded into spaces so that a label
// always fits on one line. Rejections wrap domain.ErrInvalidPayload.
func Message(input string) (string, error) {
	limit := maxMessageSize()
	if len(input) > limit {
		// Rejected rather than truncated so that the label stored is the label sent.
		return "", fmt.Errorf("%w: %w: size=%d limit=%d", domain.ErrInvalidPayload, ErrMessageTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidPayload, ErrInvalidUTF8)
	}

	// Fast path: nothing to strip.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case !unicode.IsControl(r) || r == '\t':
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Action runs Message on the payload of a commit action carrying a string.
// Other actions, and commits with a non-string payload, are returned as is;
// the enhancer rejects the latter.
func Action(action domain.Action) (domain.Action, error) {
	if action.Type != domain.ActionCommit {
		return action, nil
	}
	msg, ok := action.Payload.(string)
	if !ok {
		return action, nil
	}
	clean, err := Message(msg)
	if err != nil {
		return action, err
	}
	action.Payload = clean
	return action, nil
}

func maxMessageSize() int {
	if val := os.Getenv(EnvMaxMessageSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxMessageSize
}
