package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Producer computes a fresh default value on every call.
type Producer func() any

// DefaultProducers are the producers available to every catalogue.
func DefaultProducers() map[string]Producer {
	return map[string]Producer{
		"now":  func() any { return time.Now().UTC().Format(time.RFC3339) },
		"unix": func() any { return time.Now().Unix() },
		"uuid": func() any { return uuid.NewString() },
	}
}
