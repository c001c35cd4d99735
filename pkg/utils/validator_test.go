package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type usernameForm struct {
	Username string `json:"username" validate:"required,username"`
	Slug     string `json:"slug" validate:"omitempty,slug"`
}

func TestValidateStruct_Username(t *testing.T) {
	valid := []string{"reader", "john.doe", "a+b", "x_y-z", "mail@host"}
	for _, name := range valid {
		assert.Empty(t, ValidateStruct(usernameForm{Username: name}), name)
	}

	invalid := []string{"me", "ME", "with space", "semi;colon", "slash/"}
	for _, name := range invalid {
		errs := ValidateStruct(usernameForm{Username: name})
		assert.Contains(t, errs, "username", name)
	}
}

func TestValidateStruct_SlugAndJSONNames(t *testing.T) {
	errs := ValidateStruct(usernameForm{Username: "ok", Slug: "not a slug"})

	assert.Equal(t, map[string]string{"slug": "Only letters, digits, hyphens and underscores are allowed"}, errs)
}

func TestValidateStruct_Required(t *testing.T) {
	errs := ValidateStruct(usernameForm{})

	assert.Equal(t, "This field is required", errs["username"])
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	var form *usernameForm

	assert.Equal(t, map[string]string{NonFieldErrorsKey: "Invalid request body"}, ValidateStruct(form))
	assert.Contains(t, ValidateStruct(42), NonFieldErrorsKey)
}
