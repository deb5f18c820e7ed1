package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/session"
)

// Submission sources for the submissions metric.
const (
	sourceSession   = "session"
	sourceCalculate = "calculate"
)

type calculateResponse struct {
	insight.Payload
	Devices []footprint.DeviceShare `json:"devices,omitempty"`
}

type createSessionResponse struct {
	ID      string       `json:"id"`
	Session session.View `json:"session"`
}

type submitResponse struct {
	Breakdown footprint.Breakdown `json:"breakdown"`
	Total     float64             `json:"total"`
}

type roleRequest struct {
	Role footprint.Role `json:"role"`
}

type addDeviceRequest struct {
	Type footprint.DeviceType `json:"type"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Ctx(r.Context()).
			Str(logging.FieldComponent, "server").
			Err(err).
			Msg("request failed")
	}
	writeError(w, status, code, err.Error())
}

func (s *Server) handleFactors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, footprint.Factors())
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	gen := s.generator
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "seed must be a non-negative integer")
			return
		}
		gen = insight.NewSeededGenerator(seed)
	}

	snap, err := footprint.DecodeSnapshot(http.MaxBytesReader(w, r.Body, maxBodyBytes), footprint.FormatJSON)
	if err != nil {
		if !errors.Is(err, footprint.ErrInvalidInput) {
			err = errJSON{err: err}
		}
		s.fail(w, r, err)
		return
	}

	b := snap.Breakdown()
	s.metrics.observeSubmission(snap.Role, sourceCalculate, b)

	resp := calculateResponse{Payload: gen.Generate(b)}
	if err = resp.Equivalences.Check(); err != nil {
		s.fail(w, r, err)
		return
	}
	if details, _ := strconv.ParseBool(r.URL.Query().Get("details")); details {
		resp.Devices = footprint.ComputeDeviceShares(snap.Devices)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := s.sessions.Create()
	view, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: id, Session: view})
}

// withSession runs fn on the session named in the path and writes its
// result with status.
func (s *Server) withSession(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	fn func(c *session.Controller) (any, error),
) {
	var out any
	err := s.sessions.Do(chi.URLParam(r, "id"), func(c *session.Controller) error {
		var err error
		out, err = fn(c)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, out)
}

// view adapts a state-changing operation to return the whole session.
func view(op func(c *session.Controller) error) func(c *session.Controller) (any, error) {
	return func(c *session.Controller) (any, error) {
		if err := op(c); err != nil {
			return nil, err
		}
		return c.View(), nil
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, view(func(*session.Controller) error { return nil }))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		return c.SelectRole(req.Role)
	}))
}

func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var req addDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusCreated, func(c *session.Controller) (any, error) {
		return c.AddDevice(req.Type)
	})
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var patch session.DevicePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	deviceID := chi.URLParam(r, "deviceID")
	s.withSession(w, r, http.StatusOK, func(c *session.Controller) (any, error) {
		return c.UpdateDevice(deviceID, patch)
	})
}

func (s *Server) handleRemoveDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	s.withSession(w, r, http.StatusNoContent, func(c *session.Controller) (any, error) {
		return nil, c.RemoveDevice(deviceID)
	})
}

func (s *Server) handleSetActivities(w http.ResponseWriter, r *http.Request) {
	var p footprint.ActivityProfile
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		return c.SetActivities(p)
	}))
}

func (s *Server) handleSetHabits(w http.ResponseWriter, r *http.Request) {
	// Fields absent from the body keep their current values.
	var p session.HabitsPatch
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		_, err := c.PatchHabits(p)
		return err
	}))
}

func (s *Server) handleSetAIUsage(w http.ResponseWriter, r *http.Request) {
	var p footprint.AIUsageProfile
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		return c.SetAIUsage(p)
	}))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(c *session.Controller) (any, error) {
		b, err := c.Submit()
		if err != nil {
			return nil, err
		}
		s.metrics.observeSubmission(c.Role(), sourceSession, b)
		return submitResponse{Breakdown: b, Total: b.Total()}, nil
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, func(c *session.Controller) (any, error) {
		return c.Insights()
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		return c.Back()
	}))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, http.StatusOK, view(func(c *session.Controller) error {
		c.Reset()
		return nil
	}))
}
