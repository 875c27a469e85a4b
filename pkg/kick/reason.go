package kick

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Tnze/go-mc/chat"
)

// Reason decodes a kick payload and returns its text field. ok is false when
// the payload is not a chat component object or carries no text.
func Reason(payload string) (reason string, ok bool) {
	data := bytes.TrimSpace([]byte(payload))
	// chat.Message also accepts a bare JSON string, which has no text field.
	if len(data) == 0 || data[0] != '{' {
		return "", false
	}

	var msg chat.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", false
	}
	if msg.Text == "" {
		return "", false
	}
	return msg.Text, true
}

// Format is the log line for a reason returned by Reason.
func Format(reason string, ok bool) string {
	if !ok {
		return "Kicked from server for no reason"
	}
	return fmt.Sprintf("Kicked from server: \"%s\"", reason)
}

// Message is the log line for a kick payload.
func Message(payload string) string {
	return Format(Reason(payload))
}
