package http

import (
	"fmt"
	"net/http"
	"time"

	"bilancio/internal/log"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%s:%s", scope.Kind, scope.MemberID)
	if cached, ok := s.overviewCache.Get(key); ok {
		s.metrics.CacheHits.WithLabelValues("overview").Inc()
		writeJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.CacheMisses.WithLabelValues("overview").Inc()

	overview, err := s.dashboard.Overview(r.Context(), scope)
	if err != nil {
		log.FromContext(r.Context()).Error("overview failed",
			log.FieldOperation, log.OpRead, log.FieldScope, string(scope.Kind), log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.overviewCache.Set(key, overview)
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseToday(q, s.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	horizon, err := parsePositiveInt(q, "horizon_months", s.horizonMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%s:%d", start.Format("2006-01"), horizon)
	if cached, ok := s.projectionCache.Get(key); ok {
		s.metrics.CacheHits.WithLabelValues("projection").Inc()
		writeJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.CacheMisses.WithLabelValues("projection").Inc()

	entries, err := s.dashboard.Projection(r.Context(), start, horizon)
	if err != nil {
		log.FromContext(r.Context()).Error("projection failed",
			log.FieldOperation, log.OpProject, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.projectionCache.Set(key, entries)
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDebtSummary(w http.ResponseWriter, r *http.Request) {
	horizon, err := parsePositiveInt(r.URL.Query(), "horizon_months", s.horizonMonths)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.dashboard.DebtOverview(r.Context(), horizon)
	if err != nil {
		log.FromContext(r.Context()).Error("debt summary failed",
			log.FieldOperation, log.OpProject, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReminderPreview(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r.URL.Query(), s.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	eval, err := s.reminders.Preview(r.Context(), today)
	if err != nil {
		log.FromContext(r.Context()).Error("reminder preview failed",
			log.FieldOperation, log.OpEvaluate, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// A cheap read proves the database file is reachable and migrated.
	if _, err := s.store.ListMembers(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
