package eventparser

import (
	"migrator/internal/models"

	"github.com/aws/aws-lambda-go/events"
)

const (
	TriggerSourceAuthentication = "UserMigration_Authentication"
	TriggerSourceForgotPassword = "UserMigration_ForgotPassword"

	cognitoStatusConfirmed     = "CONFIRMED"
	cognitoStatusResetRequired = "RESET_REQUIRED"
	messageActionSuppress      = "SUPPRESS"
)

var triggerSourceFlows = map[string]models.Flow{
	TriggerSourceAuthentication: models.FlowAuthentication,
	TriggerSourceForgotPassword: models.FlowForgotPassword,
}

// FromCognito translates a User Migration trigger into a TriggerEvent. Unknown
// trigger sources are passed through as the flow so that validation rejects
// them.
func FromCognito(event events.CognitoEventUserPoolsMigrateUser, requestID string) models.TriggerEvent {
	flow, ok := triggerSourceFlows[event.TriggerSource]
	if !ok {
		flow = models.Flow(event.TriggerSource)
	}

	return models.TriggerEvent{
		Flow:            flow,
		LoginIdentifier: event.UserName,
		Password:        event.CognitoEventUserPoolsMigrateUserRequest.Password,
		Caller: models.CallerContext{
			UserPoolID: event.UserPoolID,
			ClientID:   event.CallerContext.ClientID,
			Region:     event.Region,
			RequestID:  requestID,
		},
	}
}

// ApplyToCognito copies a migration response onto the trigger event returned
// to Cognito.
func ApplyToCognito(
	event events.CognitoEventUserPoolsMigrateUser,
	response *models.MigrationResponse,
) events.CognitoEventUserPoolsMigrateUser {
	if response == nil {
		return event
	}

	out := &event.CognitoEventUserPoolsMigrateUserResponse
	out.UserAttributes = make(map[string]string, len(response.Attributes))
	for name, value := range response.Attributes {
		out.UserAttributes[name] = value
	}

	switch response.FinalUserStatus {
	case models.FinalUserStatusConfirmed:
		out.FinalUserStatus = cognitoStatusConfirmed
	case models.FinalUserStatusResetRequired:
		out.FinalUserStatus = cognitoStatusResetRequired
	default:
		out.FinalUserStatus = ""
	}

	if response.SuppressWelcomeMessage {
		out.MessageAction = messageActionSuppress
	}

	// The password never leaves the bridge.
	event.CognitoEventUserPoolsMigrateUserRequest.Password = ""
	return event
}
