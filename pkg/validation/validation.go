// Package validation provides input validation and rate limiting for discrete
// player actions.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-starstrike/pkg/event"
)

// MaxActionLen bounds the length of an action name before it is looked up
const MaxActionLen = 16

// ErrUnknownAction is returned for action names the simulation does not handle.
var ErrUnknownAction = errors.New("unknown input action")

var knownActions = map[string]bool{
	event.ActionLeft:  true,
	event.ActionRight: true,
	event.ActionUp:    true,
	event.ActionDown:  true,
	event.ActionFire:  true,
	event.ActionPause: true,
}

// NormalizeAction trims and lower-cases a raw action name.
func NormalizeAction(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateAction validates and normalizes an input action name
func ValidateAction(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("action cannot be empty")
	}

	if len(raw) > MaxActionLen {
		return "", fmt.Errorf("action too long: %d characters (max %d)", len(raw), MaxActionLen)
	}

	if !utf8.ValidString(raw) {
		return "", fmt.Errorf("action contains invalid UTF-8 characters")
	}

	for _, r := range raw {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("action contains control characters")
		}
	}

	action := NormalizeAction(raw)
	if !knownActions[action] {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	return action, nil
}

// ValidateInput checks a complete input:action payload.
func ValidateInput(e event.InputActionEvent) (event.InputActionEvent, error) {
	action, err := ValidateAction(e.Action)
	if err != nil {
		return e, err
	}
	e.Action = action
	return e, nil
}
