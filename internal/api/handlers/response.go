package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	apperrors "github.com/yangonbites/platform/pkg/errors"
	"github.com/yangonbites/platform/pkg/validate"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps application errors to HTTP statuses. Internal errors are
// logged and replaced by a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Ctx(r.Context()).Error().Err(err).Msg(action)
		respondWithError(w, http.StatusInternalServerError, action)
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg(action)
		respondWithError(w, http.StatusInternalServerError, action)
	}
}

// decodeRequest reads a JSON body into dst and runs its validate tags
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID reads the {id} path segment and rejects it unless it is a UUID
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue("id")
	if !validate.UUID(id) {
		respondWithError(w, http.StatusBadRequest, name+" must be a valid UUID")
		return "", false
	}
	return id, true
}

// queryID reads a required UUID query parameter
func queryID(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	id := r.URL.Query().Get(key)
	if !validate.UUID(id) {
		respondWithError(w, http.StatusBadRequest, key+" must be a valid UUID")
		return "", false
	}
	return id, true
}

// parseLimit reads the optional limit query parameter; 0 means "use the default"
func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, false
	}
	return limit, true
}
