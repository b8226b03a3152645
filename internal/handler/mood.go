// Package handler contains the HTTP handlers of the moodlog JSON API.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (path params, query string, JSON body)
//  2. Call the service
//  3. Write the response (status code, headers, JSON body)
//
// Handlers hold no business logic; they are the glue between HTTP and
// internal/service.
package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/export"
	"github.com/sakif/moodlog/internal/query"
	"github.com/sakif/moodlog/internal/service"
)

// MoodHandler serves the mood journal JSON API.
//
// THIN HANDLERS:
// Each method parses the request, calls one MoodService method and
// writes the result. Validation, filtering and aggregation all live in
// the service, so the CLI gets exactly the same behaviour.
type MoodHandler struct {
	service     *service.MoodService
	logger      *slog.Logger
	heatmapDays int
}

// NewMoodHandler creates a new MoodHandler. heatmapDays is the window used
// when a heatmap request has no ?days=.
func NewMoodHandler(svc *service.MoodService, logger *slog.Logger, heatmapDays int) *MoodHandler {
	if heatmapDays <= 0 {
		heatmapDays = service.DefaultHeatmapDays
	}
	return &MoodHandler{service: svc, logger: logger, heatmapDays: heatmapDays}
}

// Routes registers the API on r:
//
//	GET    /moods             → list (filter query params)
//	POST   /moods             → create
//	GET    /moods/{id}        → get one
//	PATCH  /moods/{id}/note   → replace or clear the note
//	DELETE /moods/{id}        → delete
//	GET    /stats/average     → mean mood for the filter
//	GET    /stats/summary     → count, extremes, bucket counts
//	GET    /stats/trend       → chart series, oldest first
//	GET    /stats/heatmap     → one mood per day (?days=)
//	GET    /export            → download (?format=csv|json)
func (h *MoodHandler) Routes(r chi.Router) {
	r.Route("/moods", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Patch("/note", h.HandleUpdateNote)
		})
	})
	r.Route("/stats", func(r chi.Router) {
		r.Get("/average", h.HandleAverage)
		r.Get("/summary", h.HandleSummary)
		r.Get("/trend", h.HandleTrend)
		r.Get("/heatmap", h.HandleHeatmap)
	})
	r.Get("/export", h.HandleExport)
}

// createRequest is the POST /api/moods body. Timestamp is optional.
type createRequest struct {
	MoodValue int        `json:"moodValue"`
	Note      *string    `json:"note"`
	Timestamp *time.Time `json:"timestamp"`
}

// noteRequest is the PATCH /api/moods/{id}/note body. A null or empty
// note clears it.
type noteRequest struct {
	Note *string `json:"note"`
}

// HandleList returns the records matching the filter, newest first by default.
//
// HTTP: GET /api/moods?search=coffee&bucket=good&range=last-month
func (h *MoodHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.service.ListRecords(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleCreate saves a new mood record.
//
// HTTP: POST /api/moods
// REQUEST BODY: {"moodValue": 7, "note": "Had coffee today"}
func (h *MoodHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.service.CreateRecord(r.Context(), req.MoodValue, req.Note, req.Timestamp)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// HandleGet returns one record.
//
// HTTP: GET /api/moods/{id}
func (h *MoodHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleUpdateNote replaces a record's note.
//
// HTTP: PATCH /api/moods/{id}/note
// REQUEST BODY: {"note": "..."} or {"note": null}
func (h *MoodHandler) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.service.UpdateNote(r.Context(), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleDelete removes a record. 204 on success.
//
// HTTP: DELETE /api/moods/{id}
func (h *MoodHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAverage answers {"average": 6.5}. 0 means no records matched.
//
// HTTP: GET /api/stats/average?range=week&anchor=2026-06-14
func (h *MoodHandler) HandleAverage(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	avg, err := h.service.DailyAverage(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"average": avg})
}

// HandleSummary returns the analytics header numbers.
//
// HTTP: GET /api/stats/summary
func (h *MoodHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleTrend returns the chart series.
//
// HTTP: GET /api/stats/trend
func (h *MoodHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	points, err := h.service.Trend(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleHeatmap returns {"2026-06-14": 7, ...}.
//
// HTTP: GET /api/stats/heatmap?days=30
func (h *MoodHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	days := h.heatmapDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, apperror.ValidationFailed("days", "days must be a whole number"))
			return
		}
		days = n
	}

	heatmap, err := h.service.Heatmap(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

// HandleExport streams the filtered records as a file download.
//
// HTTP: GET /api/export?format=csv&range=last-year
//
// The export is rendered into a buffer first, so an encoding failure can
// still be reported with a proper status instead of a truncated file.
func (h *MoodHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.service.ListRecords(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		h.logger.Error("failed to render export",
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(h.service.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("export download interrupted", slog.String("error", err.Error()))
	}
}

// parseFilter reads the shared filter query parameters.
func (h *MoodHandler) parseFilter(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	return query.ParseFilter(query.Params{
		Search: q.Get("search"),
		Bucket: q.Get("bucket"),
		Range:  q.Get("range"),
		Anchor: q.Get("anchor"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Order:  q.Get("order"),
	}, h.service.Location())
}
