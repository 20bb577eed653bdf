package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flashtrack/pkg/course"
	"github.com/matzehuels/flashtrack/pkg/editor"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/render/dot"
	"github.com/matzehuels/flashtrack/pkg/session"
	"github.com/matzehuels/flashtrack/pkg/store"
)

func chiParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chiParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSessionNotFound, err, "session %q", id)
	}
	return sess, nil
}

func (s *Server) writeSnapshot(w http.ResponseWriter, status int, sess *session.Session) {
	var snap Snapshot
	_ = sess.Do(func(ed *editor.Editor) error {
		snap = snapshot(ed)
		return nil
	})
	snap.ID = sess.ID
	snap.Name = sess.Name()
	snap.ExpiresAt = sess.ExpiresAt()
	writeJSON(w, status, snap)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	c := s.cfg.NewCourse()
	name := r.URL.Query().Get("course")
	if name != "" {
		rec, err := s.store.Load(r.Context(), name)
		if err != nil {
			s.writeError(w, r, store.NotFound(err, name))
			return
		}
		f, err := rec.File()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if c, err = f.Build(s.cfg.CourseOptions()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	sess := s.sessions.Create(editor.New(c))
	sess.SetName(name)
	s.logger.Debug("session created", "id", sess.ID, "course", name)
	s.writeSnapshot(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chiParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeSessionNotFound, err, "session %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req modeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := editor.ParseMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = sess.Do(func(ed *editor.Editor) error {
		ed.SetMode(mode)
		return nil
	})
	s.writeSnapshot(w, http.StatusOK, sess)
}

// applyEvents applies events in order. Events before a failing one stay
// applied; the error names the failing index.
func (s *Server) applyEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var events []editor.Event
	if err := decode(w, r, &events); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Do(func(ed *editor.Editor) error { return ed.ApplyAll(events) }); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSnapshot(w, http.StatusOK, sess)
}

// exportFile snapshots the session's course as a course file.
func exportFile(sess *session.Session, name string) io.File {
	var f io.File
	_ = sess.Do(func(ed *editor.Editor) error {
		f = io.NewFile(name, ed.Course())
		return nil
	})
	return f
}

func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = sess.Name()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := io.WriteJSON(exportFile(sess, name), w); err != nil {
		s.logger.Error("export failed", "session", sess.ID, "err", err)
	}
}

var contentTypes = map[dot.Format]string{
	dot.FormatDOT: "text/vnd.graphviz",
	dot.FormatSVG: "image/svg+xml",
	dot.FormatPNG: "image/png",
}

func (s *Server) renderSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := dot.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = dot.ParseFormat(q); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	// Render a copy so the session is not locked while Graphviz runs.
	var c *course.Course
	_ = sess.Do(func(ed *editor.Editor) error {
		src := ed.Course()
		c, err = course.Import(src.Export(), src.Options())
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.renderer.Render(r.Context(), c, format, dot.Options{
		Scale:     s.cfg.Render.Scale,
		Color:     s.cfg.Course.Color,
		Landmarks: true,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}

type saveRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Completed bool   `json:"completed"`
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req saveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name == "" {
		req.Name = sess.Name()
	}
	if req.Color == "" {
		req.Color = s.cfg.Course.Color
	}
	if err := errs.ValidateColor(req.Color); err != nil {
		s.writeError(w, r, err)
		return
	}

	f := exportFile(sess, req.Name)
	f.Color = req.Color
	f.Completed = req.Completed
	info, err := s.store.Save(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SetName(info.Name)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	name := chiParam(r, "name")
	rec, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, store.NotFound(err, name))
		return
	}
	f, err := rec.File()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := io.WriteJSON(f, w); err != nil {
		s.logger.Error("write course failed", "course", name, "err", err)
	}
}

func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	name := chiParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, store.NotFound(err, name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
