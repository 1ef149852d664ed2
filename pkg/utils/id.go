package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewID returns an opaque identifier for content items and delivery
// references.
func NewID() (string, error) {
	return gonanoid.New()
}
