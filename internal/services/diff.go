package services

import (
	"reflect"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
)

// Attributes stripped from every diff regardless of whether they changed.
var excludedAttributes = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
}

// ChangedAttributes filters updates down to the keys whose value
// actually differs from the original snapshot. Values must already be
// normalized to the entity's attribute types.
func ChangedAttributes(original, updates map[string]interface{}) map[string]interface{} {
	changed := make(map[string]interface{})
	for key, value := range updates {
		if old, ok := original[key]; ok && reflect.DeepEqual(old, value) {
			continue
		}
		changed[key] = value
	}
	return changed
}

// ComputeChanges builds the before/after delta between an entity's
// original attribute snapshot and the applied updates. Unchanged keys
// and the excluded timestamp attributes are dropped from both sides, so
// Before and After always carry the same key set. Returns nil when no
// attribute survives, which the recorder stores as an absent diff.
func ComputeChanges(original, updates map[string]interface{}) *models.ActivityChanges {
	before := make(map[string]interface{})
	after := make(map[string]interface{})

	for key, value := range updates {
		if _, excluded := excludedAttributes[key]; excluded {
			continue
		}
		old, ok := original[key]
		if ok && reflect.DeepEqual(old, value) {
			continue
		}
		if !ok {
			old = nil
		}
		before[key] = old
		after[key] = value
	}

	if len(after) == 0 {
		return nil
	}
	return &models.ActivityChanges{Before: before, After: after}
}
