package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"monthcal/internal/calendar"
	"monthcal/internal/config"
	"monthcal/internal/events"
	"monthcal/internal/ics"
	appLog "monthcal/internal/log"
	"monthcal/internal/model"
	"monthcal/internal/session"
)

const prodID = "-//monthcal//monthcal//EN"

// maxBodyBytes caps POST /api/events payloads.
const maxBodyBytes = 64 << 10

// Server exposes the session over a JSON API.
type Server struct {
	cfg  *config.Config
	sess *session.Session
	mux  *http.ServeMux
	now  func() time.Time
}

// NewServer constructs a new Server. now is used for ICS DTSTAMP values;
// nil means time.Now.
func NewServer(cfg *config.Config, sess *session.Session, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		cfg:  cfg,
		sess: sess,
		mux:  http.NewServeMux(),
		now:  now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="monthcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/month", s.handleMonth)
	s.mux.HandleFunc("GET /api/view", s.handleView)
	s.mux.HandleFunc("POST /api/view/{move}", s.handleMove)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("GET /api/conflicts", s.handleConflicts)
	s.mux.HandleFunc("GET /calendar.ics", s.handleExportICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleMonth returns the grid for an explicit month.
//
// GET /api/month?year=2024&month=4
//   - month is zero-based; both default to the session cursor.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, month := s.sess.Cursor()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be an integer")
			return
		}
		month = n
	}

	snap, err := s.sess.MonthSnapshot(year, month)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.monthResponse(snap))
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	s.writeCursorView(w)
}

// handleMove moves the session cursor: POST /api/view/{prev|next|today}.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	switch move := r.PathValue("move"); move {
	case "prev":
		s.sess.Navigate(-1)
	case "next":
		s.sess.Navigate(1)
	case "today":
		s.sess.GoToToday()
	default:
		writeError(w, http.StatusNotFound, "unknown move "+strconv.Quote(move))
		return
	}
	s.writeCursorView(w)
}

func (s *Server) writeCursorView(w http.ResponseWriter) {
	snap, err := s.sess.View()
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.monthResponse(snap))
}

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	all := s.sess.Store().All()
	conflicts := calendar.FindConflicts(all)

	out := make([]eventDTO, 0, len(all))
	for _, ev := range all {
		out = append(out, toEventDTO(ev, conflicts))
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: out})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.sess.Store().Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(ev, s.sess.Conflicts()))
}

// handleCreateEvent accepts an events.Draft and answers 201 with the
// stored event, or 400 with per-field messages.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var d events.Draft
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	ev, err := s.sess.AddEvent(d)
	if err != nil {
		var verr *events.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{
				Error:  "validation failed",
				Fields: verr.ByField(),
			})
			return
		}
		appLog.Error("create event failed", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, toEventDTO(ev, s.sess.Conflicts()))
}

func (s *Server) handleConflicts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, conflictsResponse{IDs: s.sess.Conflicts().IDs()})
}

func (s *Server) handleExportICS(w http.ResponseWriter, _ *http.Request) {
	doc := ics.Export(s.sess.Store().All(), prodID, s.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// writeCoreError maps core errors onto HTTP statuses.
func (s *Server) writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument), errors.Is(err, model.ErrValidationFailed):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		appLog.Error("request failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) monthResponse(snap session.Snapshot) monthResponse {
	v := snap.Month
	cells := make([]cellDTO, 0, len(v.Cells))
	for _, c := range v.Cells {
		evs := make([]eventDTO, 0, len(c.Events))
		for _, ev := range c.Events {
			evs = append(evs, toEventDTO(ev, snap.Conflicts))
		}
		cells = append(cells, cellDTO{
			Date:           c.Date.String(),
			DayNumber:      c.DayNumber,
			IsCurrentMonth: c.IsCurrentMonth,
			IsToday:        c.IsToday,
			Events:         evs,
		})
	}
	return monthResponse{
		Year:      v.Year,
		Month:     v.Month,
		MonthName: calendar.MonthName(v.Month),
		WeekStart: strings.ToLower(s.sess.WeekStart().String()),
		Weekdays:  calendar.WeekdayHeaders(s.sess.WeekStart()),
		Days:      cells,
		Conflicts: snap.Conflicts.IDs(),
	}
}

func toEventDTO(ev model.Event, conflicts calendar.ConflictSet) eventDTO {
	return eventDTO{
		Record:        events.NewRecord(ev),
		DurationLabel: model.FormatDuration(ev.DurationMinutes()),
		StartLabel:    ev.Start.Format12h(),
		EndLabel:      ev.End.Format12h(),
		Conflict:      conflicts.Has(ev.ID),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
