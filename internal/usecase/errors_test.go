package usecase

import (
	"testing"

	"yamdb/internal/dto/request"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_NilRequestIsRejected(t *testing.T) {
	var req *request.GenreRequest

	e, ok := AsError(validate(req))
	require.True(t, ok)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Contains(t, e.Fields, utils.NonFieldErrorsKey)
}
