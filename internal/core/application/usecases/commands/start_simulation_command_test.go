package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartSimulationCommand(t *testing.T) {
	t.Run("valid order id", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewStartSimulationCommand(orderID)

		require.NoError(t, err)
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.NoError(t, cmd.Validate())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.StartSimulationCommand

		err := cmd.Validate()

		require.ErrorIs(t, err, commands.ErrStartSimulationCommandIsNotConstructed)
	})
}
