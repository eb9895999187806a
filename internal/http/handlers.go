package http

import (
	"fmt"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the catalog is loaded and the view is live.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK
	checks := make(map[string]any)

	if n := len(s.ledger.Categories()); n == 0 {
		checks["catalog"] = "failed: no categories"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		checks["catalog"] = map[string]any{"categories": n, "status": "ok"}
	}

	snap := s.ledger.Snapshot()
	if snap.Month.IsZero() {
		checks["view"] = "failed: no month selected"
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		checks["view"] = map[string]any{"month": snap.Month.String(), "status": "ok"}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.GetMetrics()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "# HELP gastos_requests_total Total HTTP requests\n")
	fmt.Fprintf(w, "gastos_requests_total %d\n", m.TotalRequests)
	fmt.Fprintf(w, "# HELP gastos_requests_in_flight HTTP requests being served\n")
	fmt.Fprintf(w, "gastos_requests_in_flight %d\n", m.InFlight)
	fmt.Fprintf(w, "# HELP gastos_rate_limited_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "gastos_rate_limited_total %d\n", s.limiter.Rejected())
	fmt.Fprintf(w, "# HELP gastos_suspicious_requests_total Requests flagged by the detector\n")
	fmt.Fprintf(w, "gastos_suspicious_requests_total %d\n", s.detector.SuspiciousRequests())
	fmt.Fprintf(w, "# HELP gastos_entries Entries in the ledger\n")
	fmt.Fprintf(w, "gastos_entries %d\n", s.ledger.EntryCount())
	fmt.Fprintf(w, "# HELP gastos_month_entries Entries in the selected month\n")
	fmt.Fprintf(w, "gastos_month_entries %d\n", len(s.ledger.Snapshot().Entries))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(toCategoryDTOs(s.ledger.Categories())).Write(w)
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(toMonthDTO(s.ledger.Snapshot())).Write(w)
}

// handleSelectMonth accepts {"month":"yyyy-mm"} or month=yyyy-mm.
func (s *Server) handleSelectMonth(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := s.ledger.SelectMonth(r.Context(), parser.Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().JSON(toMonthDTO(snap)).Write(w)
}

func (s *Server) handleNextMonth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(toMonthDTO(s.ledger.SelectNextMonth(r.Context()))).Write(w)
}

func (s *Server) handlePreviousMonth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(toMonthDTO(s.ledger.SelectPreviousMonth(r.Context()))).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(toSummaryDTO(s.ledger.Snapshot(), s.formatter)).Write(w)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.ledger.AddEntry(r.Context(), parser.EntryInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/entries/"+entry.ID).
		JSON(toEntryDTO(entry, s.formatter)).
		Write(w)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.ledger.Entry(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().JSON(toEntryDTO(entry, s.formatter)).Write(w)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.ledger.UpdateEntry(r.Context(), r.PathValue("id"), parser.EntryInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().JSON(toEntryDTO(entry, s.formatter)).Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
