package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"maritime-route-service/internal/api/dto"
	"maritime-route-service/internal/apperr"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: kind, Message: msg})
}

// writeAppErr maps an apperr.Kind to its HTTP status, keeping that
// mapping decision at this boundary only. KindNoRouteFound normally
// never reaches here — the coordinator turns it into a 200 response
// with a nil primary route — but a 404 fallback is kept in case it
// ever surfaces from elsewhere.
func writeAppErr(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindPortNotFound, apperr.KindNoRouteFound:
		status = http.StatusNotFound
	case apperr.KindDeadlineExceeded:
		status = http.StatusRequestTimeout
	case apperr.KindOverloaded:
		status = http.StatusTooManyRequests
	case apperr.KindCancelled:
		status = 499 // client closed request; no stdlib constant
	case apperr.KindBackendUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.KindGraphBuildFailed, apperr.KindInternal:
		status = http.StatusInternalServerError
	}

	res := dto.ErrorResponse{Error: string(kind), Message: err.Error(), RequestID: requestID}
	if appErr, ok := err.(*apperr.Error); ok && len(appErr.Details) > 0 {
		res.Details = appErr.Details
	}

	writeJSON(w, r, status, res)
}
