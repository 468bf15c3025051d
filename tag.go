package restorable

import "github.com/google/uuid"

// NewTag returns a fresh unique tag. Convenient when the caller does
// not care about the tag's spelling, only about restoring it later.
func NewTag() string {
	return "tag-" + uuid.NewString()
}

// validateTag rejects empty tags before any store access happens.
func validateTag(tag string) error {
	if tag == "" {
		return newInvalidArgument("tag must not be empty")
	}
	return nil
}
