package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/editorform"
	"git.home.luguber.info/inful/salonsite/internal/eventstore"
	"git.home.luguber.info/inful/salonsite/internal/export"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/preview"
	"git.home.luguber.info/inful/salonsite/internal/server/responses"
)

const (
	msgPreviewSent = "Aperçu mis à jour"
	msgReset       = "Contenu réinitialisé aux valeurs par défaut"
	msgUploaded    = "Image uploadée avec succès !"
)

// handlePreview broadcasts a JSON document body to the preview.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.ValidationError("request body too large or unreadable").Build())
		return
	}
	doc, err := content.Decode(body)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.setDraft(doc)
	msg := preview.NewUpdate(doc)
	s.send(r.Context(), msg, "api", true)
	writeJSON(w, http.StatusOK, responses.PreviewResponse{
		APIResponse: responses.APIResponse{Success: true, Message: msgPreviewSent},
		MessageID:   msg.ID,
	})
}

// handlePreviewForm extracts the editor form into the session document and broadcasts it.
func (s *Server) handlePreviewForm(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	doc := s.draftCopy()
	editorform.ExtractInto(values, &doc)
	s.setDraft(doc)

	msg := preview.NewUpdate(doc)
	s.send(r.Context(), msg, "form", false)
	writeJSON(w, http.StatusOK, responses.PreviewResponse{
		APIResponse: responses.APIResponse{Success: true, Message: msgPreviewSent},
		MessageID:   msg.ID,
	})
}

// handleReset puts the default document in the editor session and the preview.
// Nothing is persisted.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.setDraft(content.Default())
	msg := preview.NewReset()
	s.send(r.Context(), msg, "reset", true)

	ev, err := eventstore.NewContentReset(eventstore.NewCorrelationID())
	s.journal.Record(r.Context(), ev, err)

	writeJSON(w, http.StatusOK, responses.APIResponse{Success: true, Message: msgReset, Type: responses.TypeInfo})
}

// handleUpload turns an uploaded image into a data URI and sets it on the session
// document, hero.backgroundImage unless the form names another path.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxBodyBytes); err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "parse upload").Build())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.ValidationError("no file uploaded").Build())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "read upload").Build())
		return
	}
	uri, err := editorform.DataURI(data, header.Filename)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}

	path := r.FormValue("path")
	if path == "" {
		path = content.PathHeroBackground
	}
	doc := s.draftCopy()
	if err := content.Set(&doc, path, uri); err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.setDraft(doc)

	correlationID := eventstore.NewCorrelationID()
	msg := preview.NewUpdate(doc)
	s.sender.Send(r.Context(), msg)
	sent, sentErr := eventstore.NewPreviewSent(correlationID, msg.ID, string(msg.Type), "upload")
	s.journal.Record(r.Context(), sent, sentErr)
	up, upErr := eventstore.NewImageUploaded(correlationID, header.Filename, path, len(data))
	s.journal.Record(r.Context(), up, upErr)

	writeJSON(w, http.StatusOK, responses.UploadResponse{
		APIResponse: responses.APIResponse{Success: true, Message: msgUploaded, Type: responses.TypeSuccess},
		DataURI:     uri,
		Field:       path,
	})
}

// handleExport downloads the session document with the page it renders to.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}
	if format != export.FormatJSON && format != export.FormatZip {
		s.errs.WriteErrorResponse(w, r, errors.ValidationError("unknown export format").
			WithContext("format", string(format)).Build())
		return
	}

	doc := s.draftCopy()
	page, err := preview.Render(s.template(), doc, s.applier, "")
	if err != nil {
		s.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "render export page").Build())
		return
	}
	bundle, err := export.New(doc, page)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := bundle.WriteTo(&buf, format); err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": bundle.Filename(format),
	}))
	_, _ = buf.WriteTo(w)
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
