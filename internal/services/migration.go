package services

import (
	"context"
	"errors"
	"time"

	"migrator/internal/activity"
	c "migrator/internal/configuration"
	apierrors "migrator/internal/errors"
	"migrator/internal/handlers"
	"migrator/internal/messaging"
	"migrator/internal/metrics"
	m "migrator/internal/middlewares"
	"migrator/internal/models"
	"migrator/internal/resolution"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("migrator/internal/services")

var triggerValidator = validator.New()

const (
	resultSucceeded = "succeeded"
	resultDenied    = "denied"
	resultFailed    = "failed"
	resultInvalid   = "invalid"

	unknownFlowLabel = "unknown"
)

// Resolver locates and verifies a legacy account.
type Resolver interface {
	Resolve(ctx context.Context, identifier string, password string, mode resolution.Mode) models.MigrationOutcome
}

// MigrationService answers migration triggers. Publisher and ActivityLogger
// are optional side channels: their failures are logged and never change the
// answer given to the identity provider.
type MigrationService struct {
	Resolver       Resolver
	Publisher      messaging.IPublisher
	ActivityLogger activity.IActivityLogger
	Metrics        *metrics.Metrics
}

func (s MigrationService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.Decode[models.TriggerEvent]).Post("/", handlers.CreateHandler(s.HandleTrigger))
	return r
}

func (s MigrationService) ActivityRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(m.ValidateQuery[models.ActivitySearchParams]).
		Get("/", handlers.GetListWithQueryHandler(s.SearchActivity))
	r.With(m.ValidateQuery[models.ActivityStatsParams]).
		Get("/daily", handlers.GetListWithQueryHandler(s.DailyActivity))
	return r
}

func (s MigrationService) HandleTrigger(
	ctx context.Context,
	logger *zap.Logger,
	_ models.InvokerClaims,
	event models.TriggerEvent,
) (*models.TriggerEvent, error) {
	result, err := s.Handle(ctx, logger, &event)
	result.Password = ""
	return result, err
}

// Handle validates the event, resolves the legacy account and fills in
// event.Response. On error the event is returned unchanged alongside a
// *apierrors.MigrationError.
func (s MigrationService) Handle(
	ctx context.Context,
	logger *zap.Logger,
	event *models.TriggerEvent,
) (*models.TriggerEvent, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "migration.Handle")
	defer span.End()

	span.SetAttributes(
		attribute.String("migration.flow", string(event.Flow)),
		attribute.String("migration.user_pool_id", event.Caller.UserPoolID),
	)
	logger = logger.With(
		zap.String("flow", string(event.Flow)),
		zap.String("request_id", event.Caller.RequestID),
	)

	if err := validateTrigger(event); err != nil {
		logger.Warn("Rejected invalid migration trigger", zap.String("code", apierrors.CodeOf(err)))
		s.Metrics.ObserveMigration(flowLabel(event.Flow), resultInvalid, time.Since(start))
		span.SetStatus(codes.Error, apierrors.CodeOf(err))
		return event, err
	}

	mode := resolution.ModeAuthenticate
	if event.Flow == models.FlowForgotPassword {
		mode = resolution.ModeLookupOnly
	}

	outcome := s.Resolver.Resolve(ctx, event.LoginIdentifier, event.Password, mode)
	span.SetAttributes(attribute.String("migration.outcome", outcome.Kind.String()))

	response, err := s.respond(event.Flow, outcome)
	if err != nil {
		s.fail(ctx, logger, event, outcome, err, start)
		return event, err
	}

	event.Response = response
	s.succeed(logger, event, outcome.User.Username, start)
	return event, nil
}

func (s MigrationService) respond(flow models.Flow, outcome models.MigrationOutcome) (*models.MigrationResponse, error) {
	switch outcome.Kind {
	case models.OutcomeFound:
		return BuildResponse(flow, *outcome.User)
	case models.OutcomeNotFound, models.OutcomeInvalidCredentials:
		return nil, apierrors.ErrNotAuthenticated
	default:
		var migrationErr *apierrors.MigrationError
		if errors.As(outcome.Err, &migrationErr) {
			return nil, migrationErr
		}
		return nil, apierrors.NewTransient(outcome.Err)
	}
}

func (s MigrationService) succeed(logger *zap.Logger, event *models.TriggerEvent, username string, start time.Time) {
	logger.Info("Migrated legacy user",
		zap.String("legacy_username", username),
		zap.String("final_user_status", string(event.Response.FinalUserStatus)))
	s.Metrics.ObserveMigration(string(event.Flow), resultSucceeded, time.Since(start))

	s.record(logger, event, c.ActivityMigrationSucceeded, username, "")

	if s.Publisher == nil {
		return
	}
	err := messaging.PublishUserMigrated(s.Publisher, models.UserMigratedEvent{
		LegacyUsername:  username,
		Flow:            event.Flow,
		FinalUserStatus: event.Response.FinalUserStatus,
		UserPoolID:      event.Caller.UserPoolID,
		MigratedAt:      time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to publish user migrated event", zap.Error(err))
	}
}

func (s MigrationService) fail(
	ctx context.Context,
	logger *zap.Logger,
	event *models.TriggerEvent,
	outcome models.MigrationOutcome,
	err error,
	start time.Time,
) {
	kind := apierrors.KindOf(err)
	username := ""
	if outcome.User != nil {
		username = outcome.User.Username
	}

	action, result := c.ActivityMigrationFailed, resultFailed
	if kind == apierrors.KindNotAuthenticated {
		action, result = c.ActivityMigrationDenied, resultDenied
		logger.Info("Legacy store denied the user", zap.String("outcome", outcome.Kind.String()))
	} else {
		logger.Error("Migration failed", zap.String("kind", string(kind)), zap.Error(err))
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, apierrors.CodeOf(err))
	}

	s.Metrics.ObserveMigration(string(event.Flow), result, time.Since(start))
	s.record(logger, event, action, username, string(kind))
}

func (s MigrationService) record(logger *zap.Logger, event *models.TriggerEvent, action, username, errorKind string) {
	if s.ActivityLogger == nil {
		return
	}
	err := s.ActivityLogger.Send(models.Activity{
		Message:        action,
		Action:         action,
		Flow:           event.Flow,
		LegacyUsername: username,
		ErrorKind:      errorKind,
		UserPoolID:     event.Caller.UserPoolID,
		ClientID:       event.Caller.ClientID,
		RequestID:      event.Caller.RequestID,
	})
	if err != nil {
		logger.Error("Failed to record migration activity", zap.Error(err))
	}
}

func (s MigrationService) SearchActivity(
	logger *zap.Logger,
	_ models.InvokerClaims,
	params models.ActivitySearchParams,
) ([]map[string]interface{}, error) {
	records, err := s.ActivityLogger.Search(activityCriteria(params))
	if err != nil {
		logger.Error("Failed to search migration activity", zap.Error(err))
		return nil, apierrors.NewTransient(err)
	}
	return records, nil
}

func (s MigrationService) DailyActivity(
	logger *zap.Logger,
	_ models.InvokerClaims,
	params models.ActivityStatsParams,
) ([]models.TimeSeriesPoint, error) {
	days := params.Days
	if days == 0 {
		days = 7
	}
	points, err := s.ActivityLogger.CountByDay(map[string][]string{}, days)
	if err != nil {
		logger.Error("Failed to count migration activity", zap.Error(err))
		return nil, apierrors.NewTransient(err)
	}
	return points, nil
}

func activityCriteria(params models.ActivitySearchParams) map[string][]string {
	criteria := map[string][]string{}
	if params.Action != "" {
		criteria["action"] = []string{params.Action}
	}
	if params.Flow != "" {
		criteria["flow"] = []string{params.Flow}
	}
	if params.LegacyUsername != "" {
		criteria["legacy_username"] = []string{params.LegacyUsername}
	}
	return criteria
}

// flowLabel keeps caller-supplied flow names out of metric labels.
func flowLabel(flow models.Flow) string {
	switch flow {
	case models.FlowAuthentication, models.FlowForgotPassword:
		return string(flow)
	default:
		return unknownFlowLabel
	}
}

// validateTrigger maps the first failing field onto a validation error.
func validateTrigger(event *models.TriggerEvent) error {
	err := triggerValidator.Struct(event)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apierrors.ErrInvalidRequest
	}

	switch validationErrors[0].StructField() {
	case "Flow":
		return apierrors.ErrUnsupportedFlow
	case "LoginIdentifier":
		return apierrors.ErrMissingIdentifier
	case "Password":
		return apierrors.ErrMissingPassword
	default:
		return apierrors.ErrInvalidRequest
	}
}
