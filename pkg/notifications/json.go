// Package notifications provides mechanisms for sending release announcements.
// This file implements JSON encoding for webhook messages.
package notifications

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Errors for JSON encoding.
var (
	// errMarshalFailed indicates a failure to marshal a message to JSON.
	errMarshalFailed = errors.New("failed to marshal notification message")
)

// Encode marshals a message to compact JSON.
//
// HTML escaping is disabled so that interpolated strings appear byte-for-byte in the payload.
//
// Returns:
//   - []byte: JSON-encoded message without a trailing newline.
//   - error: Non-nil if marshaling fails, nil on success.
func Encode(msg Message) ([]byte, error) {
	return encode(msg, "")
}

// EncodeIndent marshals a message to indented JSON for display.
func EncodeIndent(msg Message) ([]byte, error) {
	return encode(msg, "  ")
}

func encode(msg Message, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(msg); err != nil {
		logrus.WithError(err).
			WithField("embeds", len(msg.Embeds)).
			Error("Failed to marshal notification message to JSON")

		return nil, fmt.Errorf("%w: %w", errMarshalFailed, err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
