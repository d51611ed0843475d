package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/fairshare/internal/metrics"
	"github.com/mmynk/fairshare/internal/middleware"
	"github.com/mmynk/fairshare/internal/service"
	"github.com/mmynk/fairshare/pkg/api"
	"github.com/mmynk/fairshare/pkg/api/apiconnect"
)

// newRouter mounts the Connect service next to the plain HTTP routes.
// /metrics is served here only when serveMetrics is set; otherwise it lives
// on its own port.
func newRouter(svc *service.HouseholdService, m *metrics.Metrics, serveMetrics bool) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if serveMetrics {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Get("/households/{id}/report", reportHandler(svc))

	path, handler := apiconnect.NewHouseholdServiceHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(m)),
	)
	r.Handle(path+"*", handler)

	return r
}

// reportHandler serves the household report as a download.
// ?format=csv|text, text by default.
func reportHandler(svc *service.HouseholdService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		format := r.URL.Query().Get("format")

		contentType, body, err := svc.Report(r.Context(), id, format)
		if err != nil {
			status := http.StatusInternalServerError
			switch service.ErrorCode(err) {
			case connect.CodeNotFound:
				status = http.StatusNotFound
			case connect.CodeInvalidArgument:
				status = http.StatusBadRequest
			}
			slog.Warn("Report download failed", "household_id", id, "status", status, "error", err)
			http.Error(w, err.Error(), status)
			return
		}

		ext := "txt"
		if format == api.ReportFormatCSV {
			ext = "csv"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="household-%s.%s"`, id, ext))
		w.Write(body)
	}
}

// requestLogger logs all incoming requests.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
