package core

import (
	"context"

	"migrator/internal/eventparser"
	"migrator/internal/models"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
)

// TriggerHandler is the part of the migration service the Lambda runtime
// drives.
type TriggerHandler interface {
	Handle(ctx context.Context, logger *zap.Logger, event *models.TriggerEvent) (*models.TriggerEvent, error)
}

// LambdaHandler adapts Cognito User Migration triggers to the migration
// service. Flush, when set, runs after every invocation so spans are exported
// before the execution environment freezes.
type LambdaHandler struct {
	Service TriggerHandler
	Flush   func(context.Context) error
}

func (h LambdaHandler) Handle(
	ctx context.Context,
	event events.CognitoEventUserPoolsMigrateUser,
) (events.CognitoEventUserPoolsMigrateUser, error) {
	if h.Flush != nil {
		defer func() {
			if err := h.Flush(ctx); err != nil {
				zap.L().Warn("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	var requestID string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}

	trigger := eventparser.FromCognito(event, requestID)
	result, err := h.Service.Handle(ctx, zap.L(), &trigger)
	if err != nil {
		return event, err
	}

	return eventparser.ApplyToCognito(event, result.Response), nil
}
