package handlers

import (
	"context"
	"net/http"

	apierrors "migrator/internal/errors"
	h "migrator/internal/helpers"
	m "migrator/internal/middlewares"
	"migrator/internal/models"

	"go.uber.org/zap"
)

type CreateTargetFunc[In any, Out any] func(context.Context, *zap.Logger, models.InvokerClaims, In) (Out, error)
type ListTargetFunc[Q any, Out any] func(*zap.Logger, models.InvokerClaims, Q) ([]Out, error)

type Page[T any] struct {
	Data []T `json:"data"`
}

// CreateHandler runs fn on the body stored by m.Decode and answers 200 with
// its result.
func CreateHandler[In any, Out any](fn CreateTargetFunc[In, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := r.Context().Value(models.BodyKey{}).(In)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r)
		resp, err := fn(r.Context(), logger, m.GetInvokerClaims(r), body)
		if err != nil {
			respondWithMigrationError(w, logger, err)
			return
		}
		h.RespondWithJSON(w, http.StatusOK, resp)
	}
}

func GetListWithQueryHandler[Q any, Out any](fn ListTargetFunc[Q, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := r.Context().Value(models.QueryKey{}).(Q)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		logger := m.GetLogger(r)
		records, err := fn(logger, m.GetInvokerClaims(r), query)
		if err != nil {
			respondWithMigrationError(w, logger, err)
			return
		}
		if records == nil {
			records = []Out{}
		}
		h.RespondWithJSON(w, http.StatusOK, Page[Out]{Data: records})
	}
}

func respondWithMigrationError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := apierrors.HTTPStatus(apierrors.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	h.RespondWithError(w, status, []string{apierrors.CodeOf(err)})
}
