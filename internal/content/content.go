// Package content holds the supported content types, the prompt templates
// sent to the model, and the parsing of model output into display units.
package content

import "fmt"

// Type is one of the supported social-media content types.
type Type string

const (
	TypeTwitter   Type = "twitter"
	TypeInstagram Type = "instagram"
	TypeLinkedIn  Type = "linkedin"
)

// ParseType validates a client-supplied content type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeTwitter, TypeInstagram, TypeLinkedIn:
		return Type(s), nil
	}
	return "", fmt.Errorf("unsupported content type %q", s)
}
