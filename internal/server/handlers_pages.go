package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"git.home.luguber.info/inful/salonsite/internal/config"
	"git.home.luguber.info/inful/salonsite/internal/dom"
	"git.home.luguber.info/inful/salonsite/internal/editorform"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/server/responses"
	"git.home.luguber.info/inful/salonsite/internal/version"
)

// handleIndex renders the main page with the stored document applied.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Load(r.Context())
	out, err := preview.Render(s.template(), doc, s.applier, "")
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "render main page").Build())
		return
	}
	writeHTML(w, http.StatusOK, out)
}

// handleEditor serves the editor page with every control populated from the session document.
func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	tmpl := s.editor
	s.mu.RUnlock()

	page, err := dom.Parse(bytes.NewReader(tmpl))
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "parse editor page").Build())
		return
	}
	editorform.Populate(editorform.NewHTMLForm(page), s.draftCopy())
	writeHTML(w, http.StatusOK, []byte(page.String()))
}

// handlePreviewPage serves the latest preview rendering.
func (s *Server) handlePreviewPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeHTML(w, http.StatusOK, s.receiver.HTML())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Server.NotFound == config.NotFoundIndex && r.Method == http.MethodGet {
		s.handleIndex(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Page non trouvée"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, responses.HealthResponse{
		Status:         "ok",
		Timestamp:      time.Now().UTC(),
		Version:        version.Version,
		Uptime:         time.Since(s.started).Seconds(),
		Backend:        string(s.cfg.Content.Backend),
		PreviewClients: s.hub.Clients(),
		PreviewReady:   s.receiver.Ready(),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, responses.ActivityResponse{Success: true, Activity: s.journal.Summary()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.errs.WriteErrorResponse(w, r, errors.NewError(errors.CategoryNotFound, "content history is disabled").Info().Build())
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errs.WriteErrorResponse(w, r, errors.ValidationError("limit must be a positive integer").
				WithContext("limit", v).Build())
			return
		}
		limit = n
	}
	entries, err := s.history.Log(limit)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, responses.HistoryResponse{Success: true, Entries: entries})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
