package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"migrator/internal/helpers"
	"migrator/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodySize = 64 * 1024

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses the JSON body into T without validating it, for handlers that
// map validation failures themselves.
func Decode[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body T
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err := decoder.Decode(&body); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		ctx := context.WithValue(r.Context(), models.BodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateQuery binds query parameters onto T by field name (case
// insensitive, snake_case accepted) and validates the result.
func ValidateQuery[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params T
		if err := bindQuery(r, &params); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, []string{"BAD_REQUEST"})
			return
		}

		if err := validate.Struct(params); err != nil {
			helpers.RespondWithError(w, http.StatusBadRequest, validationCodes(err))
			return
		}

		ctx := context.WithValue(r.Context(), models.QueryKey{}, params)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bindQuery(r *http.Request, target any) error {
	values := map[string]any{}
	for key, vals := range r.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(key), "_", "")
		if n, err := strconv.Atoi(vals[0]); err == nil {
			values[name] = n
		} else {
			values[name] = vals[0]
		}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func validationCodes(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"BAD_REQUEST"}
	}
	codes := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		codes = append(codes, "INVALID_"+strings.ToUpper(fieldErr.Field()))
	}
	return codes
}
