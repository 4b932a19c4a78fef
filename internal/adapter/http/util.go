package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"jobboard/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes onto HTTP statuses. This is the only place the
// mapping lives; internal causes are logged in full here and never reach the
// response body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		s.log.WithError(err).Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	status := http.StatusInternalServerError
	message := appErr.Message
	switch appErr.Code {
	case common.CodeUnauthorized:
		status = http.StatusUnauthorized
	case common.CodeForbidden:
		status = http.StatusForbidden
	case common.CodeValidation:
		status = http.StatusBadRequest
		// Surface the first failing field's message.
		message = appErr.FirstField()
	case common.CodeNotFound:
		status = http.StatusNotFound
	case common.CodeConflict:
		status = http.StatusConflict
	case common.CodeInternal:
		s.log.WithError(err).Error("internal error")
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.NewError(common.CodeValidation, "invalid json", err)
	}
	return nil
}

// checkStruct runs tag-based validation and converts failures into the
// shared validation error shape.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return common.NewError(common.CodeInternal, "validation setup error", err)
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return common.NewValidationError("invalid request", fields)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("invalid id", map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func int64QueryPtr(r *http.Request, key string) *int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func intQueryPtr(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
