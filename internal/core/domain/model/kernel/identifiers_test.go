package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarrierID(t *testing.T) {
	id, err := kernel.NewCarrierID("  C1 ")
	require.NoError(t, err)
	assert.Equal(t, kernel.CarrierID("C1"), id)
	assert.Equal(t, "C1", id.String())

	_, err = kernel.NewCarrierID("   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
