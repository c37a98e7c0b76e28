package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyUserRecordAttribute(t *testing.T) {
	user := LegacyUserRecord{
		Username: "jdoe",
		Attributes: []Attribute{
			{Name: "email", Value: "old@x.com"},
			{Name: "phone_number", Value: "+33600000000"},
			{Name: "email", Value: "jane@x.com"},
		},
	}

	t.Run("should let the later duplicate win", func(t *testing.T) {
		value, ok := user.Attribute("email")

		assert.True(t, ok)
		assert.Equal(t, "jane@x.com", value)
	})

	t.Run("should report a missing attribute", func(t *testing.T) {
		_, ok := user.Attribute("given_name")

		assert.False(t, ok)
	})
}
