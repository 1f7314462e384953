package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedAttributes(t *testing.T) {
	original := map[string]interface{}{
		"title":       "Invoice layout",
		"description": "Initial layout work",
		"hours_spent": 4,
	}

	tests := []struct {
		name    string
		updates map[string]interface{}
		want    map[string]interface{}
	}{
		{
			name:    "identical values are dropped",
			updates: map[string]interface{}{"title": "Invoice layout"},
			want:    map[string]interface{}{},
		},
		{
			name:    "changed value survives",
			updates: map[string]interface{}{"title": "Invoice layout v2"},
			want:    map[string]interface{}{"title": "Invoice layout v2"},
		},
		{
			name: "mixed updates keep only the changed keys",
			updates: map[string]interface{}{
				"title":       "Invoice layout",
				"hours_spent": 6,
			},
			want: map[string]interface{}{"hours_spent": 6},
		},
		{
			name:    "unknown keys pass through",
			updates: map[string]interface{}{"vat": "12345678"},
			want:    map[string]interface{}{"vat": "12345678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangedAttributes(original, tt.updates))
		})
	}
}

func TestComputeChanges(t *testing.T) {
	original := map[string]interface{}{
		"name":        "Acme",
		"description": "Hardware client",
	}

	changes := ComputeChanges(original, map[string]interface{}{
		"name":        "Acme Corp",
		"description": "Hardware client",
	})

	require.NotNil(t, changes)
	assert.Equal(t, map[string]interface{}{"name": "Acme"}, changes.Before)
	assert.Equal(t, map[string]interface{}{"name": "Acme Corp"}, changes.After)
}

func TestComputeChangesExcludesTimestamps(t *testing.T) {
	original := map[string]interface{}{"name": "Acme"}

	changes := ComputeChanges(original, map[string]interface{}{
		"created_at": time.Now(),
		"updated_at": time.Now(),
	})

	assert.Nil(t, changes)
}

func TestComputeChangesNilWhenNothingChanged(t *testing.T) {
	original := map[string]interface{}{"name": "Acme"}

	assert.Nil(t, ComputeChanges(original, map[string]interface{}{"name": "Acme"}))
	assert.Nil(t, ComputeChanges(original, map[string]interface{}{}))
}

func TestComputeChangesNewAttributeHasNilBefore(t *testing.T) {
	changes := ComputeChanges(map[string]interface{}{}, map[string]interface{}{
		"vat": "87654321",
	})

	require.NotNil(t, changes)
	assert.Equal(t, map[string]interface{}{"vat": nil}, changes.Before)
	assert.Equal(t, map[string]interface{}{"vat": "87654321"}, changes.After)
}

func TestComputeChangesSymmetricKeySets(t *testing.T) {
	original := map[string]interface{}{
		"name": "Acme",
		"vat":  "11111111",
	}

	changes := ComputeChanges(original, map[string]interface{}{
		"name":       "Acme Corp",
		"vat":        "22222222",
		"updated_at": time.Now(),
	})

	require.NotNil(t, changes)
	require.Len(t, changes.Before, len(changes.After))
	for key := range changes.After {
		_, ok := changes.Before[key]
		assert.True(t, ok, "key %q missing from before", key)
	}
}
