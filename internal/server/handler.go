// Package server exposes the classifier over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"tariffagent/internal/model"
	"tariffagent/internal/observability"
)

//go:embed views
var views embed.FS

var fragments = template.Must(template.ParseFS(views, "views/result.html"))

const errDescriptionRequired = "description is required"

// Classifier is implemented by *classifier.Service.
type Classifier interface {
	Classify(ctx context.Context, description string) (model.ClassificationResult, error)
	Ready() bool
}

type HealthResponse struct {
	Status  string `json:"status"`
	AIReady bool   `json:"ai_ready"`
	Mode    string `json:"mode"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Routes wires every endpoint behind the request logging middleware.
func Routes(svc Classifier, mode string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /classify", ClassifyHandler(svc))
	mux.Handle("POST /classify_form", ClassifyFormHandler(svc))
	mux.Handle("GET /health", HealthHandler(svc, mode))
	mux.Handle("GET /{$}", IndexHandler())
	return withRequestLog(mux)
}

func ClassifyHandler(svc Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ProductDescription
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request body: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Description) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: errDescriptionRequired})
			return
		}

		result, err := svc.Classify(r.Context(), req.Description)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// ClassifyFormHandler answers with an HTML fragment; errors are rendered
// inline with status 200.
func ClassifyFormHandler(svc Classifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		description := r.FormValue("description")
		if strings.TrimSpace(description) == "" {
			renderFragment(r.Context(), w, "error", errDescriptionRequired)
			return
		}

		result, err := svc.Classify(r.Context(), description)
		if err != nil {
			renderFragment(r.Context(), w, "error", err.Error())
			return
		}

		renderFragment(r.Context(), w, "result", result)
	}
}

func HealthHandler(svc Classifier, mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "online",
			AIReady: svc.Ready(),
			Mode:    mode,
		})
	}
}

func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeFileFS(w, r, views, "views/index.html")
	}
}

func renderFragment(ctx context.Context, w http.ResponseWriter, name string, data any) {
	if err := fragments.ExecuteTemplate(w, name, data); err != nil {
		observability.Logger(ctx).Error("failed to render fragment", "template", name, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
