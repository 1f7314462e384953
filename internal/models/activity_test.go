package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEchoDescription(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"created_client", "Created Client"},
		{"updated_project", "Updated Project"},
		{"incompleted_task", "Incompleted Task"},
		{"billed_task", "Billed Task"},
		{"single", "Single"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			activity := &Activity{Description: tt.description}
			assert.Equal(t, tt.want, activity.EchoDescription())
		})
	}
}
