// Package normalize canonicalizes user input before it is validated or stored.
package normalize

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name and collapses inner whitespace runs.
func Name(s string) string { return strings.Join(strings.Fields(s), " ") }

// Text trims free text.
func Text(s string) string { return strings.TrimSpace(s) }

// OptionalID parses a hex ObjectID. An empty string yields (nil, true);
// a malformed one yields (nil, false).
func OptionalID(hex string) (*primitive.ObjectID, bool) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, false
	}
	return &id, true
}
