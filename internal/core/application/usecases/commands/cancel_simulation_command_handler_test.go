package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCancelSimulationCommandHandler(t *testing.T) {
	// Arrange
	mockLauncher := new(MockSimulationLauncher)

	// Act
	handler := commands.NewCancelSimulationCommandHandler(mockLauncher)

	// Assert
	assert.NotNil(t, handler)
}

func TestCancelSimulationCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCancelSimulationCommand(orderID)
	require.NoError(t, err)

	mockLauncher := new(MockSimulationLauncher)
	mockLauncher.On("Cancel", orderID).Return(nil).Once()

	handler := commands.NewCancelSimulationCommandHandler(mockLauncher)

	// Act
	err = handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	mockLauncher.AssertExpectations(t)
}

func TestCancelSimulationCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.CancelSimulationCommand // zero value command

	mockLauncher := new(MockSimulationLauncher)
	handler := commands.NewCancelSimulationCommandHandler(mockLauncher)

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCancelSimulationCommandIsNotConstructed)
	mockLauncher.AssertExpectations(t)
}

func TestNewCancelSimulationCommand(t *testing.T) {
	t.Run("valid order id", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewCancelSimulationCommand(orderID)

		require.NoError(t, err)
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.NoError(t, cmd.Validate())
	})

	t.Run("invalid order id", func(t *testing.T) {
		var zero kernel.UUID

		_, err := commands.NewCancelSimulationCommand(zero)

		require.Error(t, err)
	})
}
