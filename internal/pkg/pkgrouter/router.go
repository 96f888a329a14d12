package pkgrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skyworth-dev/flightgw/internal/pkg/pkgerror"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkguid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// HandlerFunc is the shape module endpoints implement. The returned value is
// serialized as the JSON response body; a returned error is mapped to a status
// code through its business code.
type HandlerFunc func(ctx context.Context, r *http.Request) (any, error)

type Router struct {
	mux *mux.Router
	uid pkguid.StringID
}

func NewRouter(uid pkguid.StringID) *Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, pkgerror.CodeNotFound, "resource not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, pkgerror.CodeInvalidInput, "method not allowed")
	})
	return &Router{mux: router, uid: uid}
}

func (rt *Router) GET(path string, handler HandlerFunc) {
	rt.handle(http.MethodGet, path, handler)
}

func (rt *Router) POST(path string, handler HandlerFunc) {
	rt.handle(http.MethodPost, path, handler)
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

func (rt *Router) handle(method, path string, handler HandlerFunc) {
	rt.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		requestID := rt.uid.Generate()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-Id", requestID)

		result, err := handler(ctx, r)
		if err != nil {
			code := pkgerror.CodeOf(err)
			slog.ErrorContext(ctx, "request failed",
				"method", method, "path", path, "request_id", requestID,
				"code", string(code), "error", err)
			writeError(w, statusOf(code), code, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, result)
	}).Methods(method)
}

// RequestID returns the correlation id injected by the router, empty when the
// context did not pass through it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func statusOf(code pkgerror.Code) int {
	switch code {
	case pkgerror.CodeInvalidInput:
		return http.StatusBadRequest
	case pkgerror.CodeUnauthenticated:
		return http.StatusUnauthorized
	case pkgerror.CodeNotFound:
		return http.StatusNotFound
	case pkgerror.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code pkgerror.Code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
