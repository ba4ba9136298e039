package server

import (
	"context"
	"io"
	"net/http"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/editorform"
	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/server/responses"
)

const (
	msgSaved      = "Contenu sauvegardé avec succès !"
	msgSaveFailed = "Erreur lors de la sauvegarde"
	msgLoadFailed = "Erreur lors du chargement du contenu"
)

// rawSource is implemented by stores that can return their bytes unparsed.
type rawSource interface {
	Raw() ([]byte, error)
}

// handleContentJSON serves the stored document, defaulted when absent or malformed.
func (s *Server) handleContentJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Load(r.Context()).MarshalIndent()
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "encode content").Build())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// handleLoadContent returns the stored bytes as they are. Unlike /content.json it
// fails instead of substituting the default, also when the bytes are not a document.
func (s *Server) handleLoadContent(w http.ResponseWriter, r *http.Request) {
	var data []byte
	var err error
	if raw, ok := s.store.(rawSource); ok {
		if data, err = raw.Raw(); err == nil {
			_, err = content.Decode(data)
		}
	} else {
		data, err = s.store.Load(r.Context()).MarshalIndent()
	}
	if err != nil {
		s.logger.Warn("Load content failed", logfields.Error(err))
		writeJSON(w, http.StatusInternalServerError, responses.APIResponse{Message: msgLoadFailed, Type: responses.TypeError})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// handleSaveContent persists a JSON document body.
func (s *Server) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.ValidationError("request body too large or unreadable").
			WithContext("limit", s.cfg.Server.MaxBodyBytes).Build())
		return
	}
	doc, err := content.Decode(body)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.saveAndRespond(w, r, doc)
}

// handleSaveForm extracts the editor form into the session document and persists it.
func (s *Server) handleSaveForm(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	doc := s.draftCopy()
	editorform.ExtractInto(values, &doc)
	s.saveAndRespond(w, r, doc)
}

func (s *Server) saveAndRespond(w http.ResponseWriter, r *http.Request, doc content.Document) {
	if err := s.save(r.Context(), doc); err != nil {
		writeJSON(w, s.errs.StatusCodeFor(err), responses.APIResponse{Message: msgSaveFailed, Type: responses.TypeError})
		return
	}
	writeJSON(w, http.StatusOK, responses.APIResponse{Success: true, Message: msgSaved, Type: responses.TypeSuccess})
}

// save persists doc, makes it the session document, and records it in the
// audit log and the content history.
func (s *Server) save(ctx context.Context, doc content.Document) error {
	correlationID := eventstore.NewCorrelationID()
	backend := string(s.cfg.Content.Backend)

	if verr := content.Validate(doc); verr != nil {
		s.logger.Info("Saving content with advisory warnings", logfields.Error(verr))
	}
	if err := s.store.Save(ctx, doc); err != nil {
		ev, evErr := eventstore.NewContentSaveFailed(correlationID, backend, err)
		s.journal.Record(ctx, ev, evErr)
		return err
	}
	s.setDraft(doc)

	data, err := doc.MarshalIndent()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode saved content").Build()
	}
	commit := ""
	if s.history != nil {
		commit, err = s.history.Commit(append(data, '\n'), "Update content")
		if err != nil {
			s.logger.Warn("Content history commit failed", logfields.Error(err))
			commit = ""
		}
	}
	ev, evErr := eventstore.NewContentSaved(correlationID, backend, len(data), commit)
	s.journal.Record(ctx, ev, evErr)
	return nil
}

func (s *Server) formValues(w http.ResponseWriter, r *http.Request) (editorform.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(s.cfg.Server.MaxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "parse form").Build()
	}
	return editorform.FromURLValues(r.PostForm), nil
}
