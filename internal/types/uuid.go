package types

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_ORGANIZATION = "org"
	UUID_PREFIX_PLAN         = "plan"
	UUID_PREFIX_SUBSCRIPTION = "sub"
	UUID_PREFIX_PROMO_CODE   = "promo"
	UUID_PREFIX_REDEMPTION   = "red"
	UUID_PREFIX_PROFILE      = "user"
	UUID_PREFIX_COURSE       = "course"
	UUID_PREFIX_REQUEST      = "req"
)

// GenerateUUID returns a lexicographically sortable unique id.
func GenerateUUID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateUUIDWithPrefix returns a unique id prefixed with the entity type,
// e.g. "org_01jmxw...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
