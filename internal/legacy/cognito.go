package legacy

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	c "migrator/internal/configuration"
	apierrors "migrator/internal/errors"
	"migrator/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("migrator/internal/legacy")

// CognitoAPI is the subset of the Cognito user pool API the bridge calls.
type CognitoAPI interface {
	AdminInitiateAuth(
		ctx context.Context,
		params *cip.AdminInitiateAuthInput,
		optFns ...func(*cip.Options),
	) (*cip.AdminInitiateAuthOutput, error)
	InitiateAuth(
		ctx context.Context,
		params *cip.InitiateAuthInput,
		optFns ...func(*cip.Options),
	) (*cip.InitiateAuthOutput, error)
	AdminGetUser(
		ctx context.Context,
		params *cip.AdminGetUserInput,
		optFns ...func(*cip.Options),
	) (*cip.AdminGetUserOutput, error)
	ListUsers(
		ctx context.Context,
		params *cip.ListUsersInput,
		optFns ...func(*cip.Options),
	) (*cip.ListUsersOutput, error)
}

// CognitoClient implements IdentityClient against a Cognito user pool. It is
// safe for concurrent use and holds no per-request state.
type CognitoClient struct {
	api    CognitoAPI
	config *models.LegacyConfiguration
}

var _ IdentityClient = (*CognitoClient)(nil)

// NewCognitoClient builds the SDK client from the legacy configuration.
// Credentials come from the default chain unless static keys are configured;
// RoleARN wraps them in an assumed role.
func NewCognitoClient(ctx context.Context, config *models.LegacyConfiguration) (*CognitoClient, error) {
	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(config.Region)}
	if config.AccessKey != "" && config.SecretKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if config.RoleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsCfg), config.RoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = c.AppName
				if config.ExternalID != "" {
					o.ExternalID = aws.String(config.ExternalID)
				}
			})
		awsCfg.Credentials = aws.NewCredentialsCache(provider)
	}

	api := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})

	return NewCognitoClientWithAPI(api, config), nil
}

func NewCognitoClientWithAPI(api CognitoAPI, config *models.LegacyConfiguration) *CognitoClient {
	return &CognitoClient{api: api, config: config}
}

func (cc *CognitoClient) AdminAuthenticate(ctx context.Context, username, password string) AuthResult {
	ctx, span := tracer.Start(ctx, "legacy.AdminInitiateAuth",
		trace.WithAttributes(
			attribute.String("legacy.mechanism", c.MechanismAdmin),
			attribute.String("legacy.auth_flow", cc.config.AdminAuthFlow),
		),
	)
	defer span.End()

	out, err := cc.api.AdminInitiateAuth(ctx, &cip.AdminInitiateAuthInput{
		AuthFlow:       types.AuthFlowType(cc.config.AdminAuthFlow),
		ClientId:       aws.String(cc.config.ClientID),
		UserPoolId:     aws.String(cc.config.UserPoolID),
		AuthParameters: cc.authParameters(username, password),
	})

	var result AuthResult
	if err != nil {
		result = classifyAuthError(err)
	} else {
		result = classifyAuthResponse(out.AuthenticationResult, out.ChallengeName)
	}
	recordAuthResult(span, result)
	return result
}

func (cc *CognitoClient) DirectAuthenticate(ctx context.Context, username, password string) AuthResult {
	ctx, span := tracer.Start(ctx, "legacy.InitiateAuth",
		trace.WithAttributes(
			attribute.String("legacy.mechanism", c.MechanismDirect),
			attribute.String("legacy.auth_flow", string(types.AuthFlowTypeUserPasswordAuth)),
		),
	)
	defer span.End()

	out, err := cc.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(cc.config.ClientID),
		AuthParameters: cc.authParameters(username, password),
	})

	var result AuthResult
	if err != nil {
		result = classifyAuthError(err)
	} else {
		result = classifyAuthResponse(out.AuthenticationResult, out.ChallengeName)
	}
	recordAuthResult(span, result)
	return result
}

func (cc *CognitoClient) GetUser(ctx context.Context, username string) models.MigrationOutcome {
	ctx, span := tracer.Start(ctx, "legacy.AdminGetUser")
	defer span.End()

	out, err := cc.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(cc.config.UserPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		outcome := classifyLookupError(err)
		recordOutcome(span, outcome)
		return outcome
	}

	outcome := models.Found(models.LegacyUserRecord{
		Username:   aws.ToString(out.Username),
		Attributes: toAttributes(out.UserAttributes),
		Status:     models.UserStatus(out.UserStatus),
		Enabled:    out.Enabled,
	})
	recordOutcome(span, outcome)
	return outcome
}

func (cc *CognitoClient) FindUserByEmail(ctx context.Context, email string) models.MigrationOutcome {
	ctx, span := tracer.Start(ctx, "legacy.ListUsers")
	defer span.End()

	out, err := cc.api.ListUsers(ctx, &cip.ListUsersInput{
		UserPoolId: aws.String(cc.config.UserPoolID),
		Filter:     aws.String(EmailFilter(email)),
		Limit:      aws.Int32(c.FindUserByEmailLimit),
	})
	if err != nil {
		outcome := classifyLookupError(err)
		recordOutcome(span, outcome)
		return outcome
	}

	var outcome models.MigrationOutcome
	switch len(out.Users) {
	case 0:
		outcome = models.NotFound()
	case 1:
		user := out.Users[0]
		outcome = models.Found(models.LegacyUserRecord{
			Username:   aws.ToString(user.Username),
			Attributes: toAttributes(user.Attributes),
			Status:     models.UserStatus(user.UserStatus),
			Enabled:    user.Enabled,
		})
	default:
		zap.L().Warn("Email matches several legacy accounts, refusing to pick one",
			zap.Int("matches", len(out.Users)))
		outcome = models.NotFound()
	}
	recordOutcome(span, outcome)
	return outcome
}

func (cc *CognitoClient) authParameters(username, password string) map[string]string {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if cc.config.ClientSecret != "" {
		params["SECRET_HASH"] = SecretHash(username, cc.config.ClientID, cc.config.ClientSecret)
	}
	return params
}

// SecretHash computes the SECRET_HASH parameter required by app clients that
// have a client secret.
func SecretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// EmailFilter builds a ListUsers filter expression matching email exactly.
func EmailFilter(email string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(email)
	return fmt.Sprintf(`%s = "%s"`, c.AttributeEmail, escaped)
}

func classifyAuthResponse(authResult *types.AuthenticationResultType, challenge types.ChallengeNameType) AuthResult {
	if authResult != nil {
		return AuthResult{Status: AuthAuthenticated}
	}
	if challenge != "" {
		return AuthResult{Status: AuthChallenged, Challenge: string(challenge)}
	}
	return AuthResult{Status: AuthTransient, Err: errors.New("legacy store returned neither a session nor a challenge")}
}

// classifyAuthError turns an SDK error into an AuthStatus. Only errors that
// say the mechanism itself is unusable allow falling through to the next
// mechanism; anything not recognised is transient.
func classifyAuthError(err error) AuthResult {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return AuthResult{Status: AuthTransient, Err: err}
	}

	switch apiErr.ErrorCode() {
	case "UserNotFoundException":
		return AuthResult{Status: AuthUserNotFound}
	case "NotAuthorizedException":
		if isClientSecretMismatch(apiErr.ErrorMessage()) {
			return AuthResult{Status: AuthTransient, Err: apierrors.NewConfiguration("LEGACY_CLIENT_SECRET_MISMATCH", err)}
		}
		return AuthResult{Status: AuthInvalidCredentials}
	case "PasswordResetRequiredException":
		return AuthResult{Status: AuthInvalidCredentials}
	case "UserNotConfirmedException":
		// Cognito only reports this after the password has been accepted.
		return AuthResult{Status: AuthChallenged, Challenge: "USER_NOT_CONFIRMED"}
	case "InvalidUserPoolConfigurationException":
		return AuthResult{Status: AuthMechanismUnavailable, Err: err}
	case "InvalidParameterException":
		if isFlowNotEnabled(apiErr.ErrorMessage()) {
			return AuthResult{Status: AuthMechanismUnavailable, Err: err}
		}
	}
	return AuthResult{Status: AuthTransient, Err: err}
}

func isFlowNotEnabled(message string) bool {
	message = strings.ToLower(message)
	return strings.Contains(message, "not enabled") || strings.Contains(message, "not supported")
}

// isClientSecretMismatch spots the NotAuthorizedException Cognito raises when
// the app client secret is wrong or missing, which says nothing about the user.
func isClientSecretMismatch(message string) bool {
	message = strings.ToLower(message)
	return strings.Contains(message, "secret hash") || strings.Contains(message, "configured for secret")
}

func classifyLookupError(err error) models.MigrationOutcome {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "UserNotFoundException" {
		return models.NotFound()
	}
	return models.TransientError(err)
}

func toAttributes(in []types.AttributeType) []models.Attribute {
	attrs := make([]models.Attribute, 0, len(in))
	for _, attr := range in {
		attrs = append(attrs, models.Attribute{
			Name:  aws.ToString(attr.Name),
			Value: aws.ToString(attr.Value),
		})
	}
	return attrs
}

func recordAuthResult(span trace.Span, result AuthResult) {
	span.SetAttributes(attribute.String("legacy.auth_status", result.Status.String()))
	if result.Status == AuthTransient {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "legacy authentication failed")
	}
}

func recordOutcome(span trace.Span, outcome models.MigrationOutcome) {
	span.SetAttributes(attribute.String("legacy.outcome", outcome.Kind.String()))
	if outcome.Kind == models.OutcomeTransientError {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, "legacy lookup failed")
	}
}
