package messaging

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/claudemirLima/changeApp/internal/dto"
	"github.com/claudemirLima/changeApp/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, req *dto.ConversionRequest) (*dto.ConversionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConversionResponse), args.Error(1)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) PublishConversionEvent(ctx context.Context, event *ConversionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestCommandConsumer_Process(t *testing.T) {
	ctx := context.Background()
	log := testLogger()

	t.Run("successful conversion yields the decision event", func(t *testing.T) {
		converter := new(MockConverter)
		consumer := &CommandConsumer{converter: converter, logger: log}

		cmd := sampleCommand()
		converter.On("Convert", ctx, mock.AnythingOfType("*dto.ConversionRequest")).
			Return(&dto.ConversionResponse{
				ConvertedAmount: decimal.NewFromInt(250),
				Rate:            decimal.RequireFromString("2.5"),
				Status:          models.TransactionStatusRequested,
				CanProceed:      true,
			}, nil)

		event := consumer.process(ctx, cmd)

		assert.Equal(t, cmd.CommandID, event.CommandID)
		assert.Equal(t, cmd.CorrelationID, event.CorrelationID)
		assert.Equal(t, models.TransactionStatusRequested, event.Status)
		assert.True(t, event.CanProceed)
	})

	t.Run("conversion error yields a rejection event", func(t *testing.T) {
		converter := new(MockConverter)
		consumer := &CommandConsumer{converter: converter, logger: log}

		cmd := sampleCommand()
		converter.On("Convert", ctx, mock.AnythingOfType("*dto.ConversionRequest")).
			Return(nil, assert.AnError)

		event := consumer.process(ctx, cmd)

		assert.Equal(t, cmd.CommandID, event.CommandID)
		assert.Equal(t, models.TransactionStatusNotApproved, event.Status)
		assert.False(t, event.CanProceed)
		assert.Contains(t, event.Reason, "failed to process conversion")
	})
}
