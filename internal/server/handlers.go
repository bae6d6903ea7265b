package server

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/internal/metrics"
	"github.com/goliatone/go-roleform/pkg/export"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/renderers/schemajson"
	"github.com/goliatone/go-roleform/pkg/rules"
	"github.com/goliatone/go-roleform/pkg/session"
	"github.com/goliatone/go-roleform/pkg/submission"
)

func (s *Server) create() *session.Session {
	sess := s.sessions.Create(s.schema)
	s.metrics.SetSessions(s.sessions.Len())
	s.logger.Debug("session created", zap.String("session", sess.ID()))
	return sess
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	return sess, true
}

func sessionPath(id, suffix string) string {
	return "/sessions/" + id + suffix
}

func (s *Server) renderOptions(snap session.Snapshot, notices ...string) render.RenderOptions {
	return render.RenderOptions{
		Values:    snap.Data,
		Action:    sessionPath(snap.ID, "/submit"),
		ChangeURL: sessionPath(snap.ID, "/changes"),
		ExportURL: sessionPath(snap.ID, "/export"),
		SessionID: snap.ID,
		Revision:  snap.Revision,
		Notices:   notices,
		Theme:     s.theme,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.create()
	http.Redirect(w, r, sessionPath(sess.ID(), ""), http.StatusSeeOther)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, s.create().Snapshot())
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.renderWith(w, r, http.StatusOK, s.htmlRenderer, sess.Snapshot())
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.renderWith(w, r, http.StatusOK, schemajson.Name, sess.Snapshot())
}

func (s *Server) renderWith(w http.ResponseWriter, r *http.Request, status int, name string, snap session.Snapshot, notices ...string) {
	renderer, err := s.renderers.Resolve(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	out, err := renderer.Render(r.Context(), snap.Schema, s.renderOptions(snap, notices...))
	if err != nil {
		s.logger.Error("render failed", zap.String("renderer", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "render failed")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var ev rules.ChangeEvent
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid change event")
		return
	}
	snap, err := s.apply(sess, ev)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) apply(sess *session.Session, ev rules.ChangeEvent) (session.Snapshot, error) {
	ev.Data = nil
	snap, err := sess.Apply(ev)
	s.metrics.RecordChange(string(ev.Kind), err)
	if err != nil {
		s.logger.Debug("change rejected",
			zap.String("session", sess.ID()),
			zap.String("key", ev.FieldKey),
			zap.Error(err),
		)
	}
	return snap, err
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	payload, err := s.submit(r.Context(), sess)
	if isFormPost(r) {
		// Plain form posts get the form back with a notice, or a redirect
		// to the download.
		if errors.Is(err, session.ErrSubmitDisabled) {
			s.renderWith(w, r, http.StatusConflict, s.htmlRenderer, sess.Snapshot(), submitDisabledNotice)
			return
		}
		if err == nil {
			http.Redirect(w, r, sessionPath(sess.ID(), "/export"), http.StatusSeeOther)
			return
		}
	}
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

const submitDisabledNotice = "Select at least one role before submitting."

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func (s *Server) submit(ctx context.Context, sess *session.Session) (submission.Payload, error) {
	payload, err := sess.Submit(ctx)
	switch {
	case err == nil:
		s.metrics.RecordSubmit(metrics.OutcomeOK)
		s.logger.Info("form submitted", zap.String("session", sess.ID()), zap.Int("fields", len(payload)))
		return payload, nil
	case errors.Is(err, session.ErrSubmitDisabled):
		s.metrics.RecordSubmit(metrics.OutcomeRejected)
	default:
		s.metrics.RecordSubmit(metrics.OutcomeError)
		s.logger.Error("submit failed", zap.String("session", sess.ID()), zap.Error(err))
	}
	return nil, err
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	payload, err := sess.LastCaptured()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if err := export.Download(w, payload); err != nil {
		s.logger.Error("export failed", zap.String("session", sess.ID()), zap.Error(err))
		return
	}
	s.metrics.RecordExport()
}
