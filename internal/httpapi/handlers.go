package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/registry"
	"github.com/goliatone/go-formschema/pkg/state"
)

// Summary describes one registered component type.
type Summary struct {
	Type      string `json:"type"`
	Component string `json:"component"`
	Version   string `json:"version"`
}

type stateRequest struct {
	Type  string         `json:"type" binding:"required"`
	State map[string]any `json:"state"`
}

type stateResponse struct {
	ID    string         `json:"id"`
	Type  string         `json:"type,omitempty"`
	State map[string]any `json:"state,omitempty"`
}

func (s *Server) listComponents(c *gin.Context) {
	types := s.components.Types()
	out := make([]Summary, 0, len(types))
	for _, typeKey := range types {
		comp, err := s.components.Resolve(typeKey)
		if err != nil {
			s.fail(c, err)
			return
		}
		out = append(out, Summary{Type: comp.Type(), Component: comp.DisplayComponent(), Version: comp.Version()})
	}
	success(c, http.StatusOK, out)
}

func (s *Server) getComponent(c *gin.Context) {
	comp, ok := s.resolve(c)
	if !ok {
		return
	}
	s.serialize(c, comp)
}

// serialize answers with comp in its own format unless ?format names another
// serializer.
func (s *Server) serialize(c *gin.Context, comp *component.Component) {
	serializer := comp.Serializer()
	if format := c.Query("format"); format != "" {
		named, err := component.SerializerByName(format)
		if err != nil {
			failure(c, http.StatusBadRequest, err.Error())
			return
		}
		serializer = named
	}
	out, err := serializer.Serialize(comp)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, out)
}

func (s *Server) getExample(c *gin.Context) {
	comp, ok := s.resolve(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, comp.ExampleData())
}

func (s *Server) getDocs(c *gin.Context) {
	comp, ok := s.resolve(c)
	if !ok {
		return
	}
	page, err := s.docs.Render(comp)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(page))
}

func (s *Server) validate(c *gin.Context) {
	comp, ok := s.resolve(c)
	if !ok {
		return
	}
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		failure(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	result := comp.Validate(payload)
	s.metrics.validation(comp.Type(), result.Valid())
	if !result.Valid() {
		invalid(c, result)
		return
	}
	success(c, http.StatusOK, gin.H{"valid": true})
}

func (s *Server) openAPI(c *gin.Context) {
	doc, err := openapi.Export(c.Request.Context(), s.components, s.info)
	if err != nil {
		s.fail(c, err)
		return
	}
	body, err := openapi.MarshalJSON(doc)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) listStates(c *gin.Context) {
	typeKey := c.Param("type")
	states, err := s.states.StatesForComponent(c.Request.Context(), typeKey)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, states)
}

func (s *Server) createState(c *gin.Context) {
	s.saveState(c, "", http.StatusCreated)
}

func (s *Server) putState(c *gin.Context) {
	s.saveState(c, c.Param("id"), http.StatusOK)
}

func (s *Server) saveState(c *gin.Context, id string, code int) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "invalid state body: "+err.Error())
		return
	}
	saved, err := s.states.Save(c.Request.Context(), id, req.Type, req.State)
	s.metrics.stateWrite("save", err == nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, code, stateResponse{ID: saved, Type: req.Type})
}

// getState returns the raw state, or the hydrated component serialized when
// ?type is given. ?format applies to the hydrated component.
func (s *Server) getState(c *gin.Context) {
	id := c.Param("id")
	if typeKey := c.Query("type"); typeKey != "" {
		comp, err := s.states.Hydrate(c.Request.Context(), id, typeKey)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.serialize(c, comp)
		return
	}

	saved, err := s.states.Load(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if saved == nil {
		failure(c, http.StatusNotFound, "state "+id+" not found")
		return
	}
	success(c, http.StatusOK, stateResponse{ID: id, State: saved})
}

func (s *Server) deleteState(c *gin.Context) {
	id := c.Param("id")
	err := s.states.Delete(c.Request.Context(), id)
	s.metrics.stateWrite("delete", err == nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	success(c, http.StatusOK, stateResponse{ID: id})
}

func (s *Server) resolve(c *gin.Context) (*component.Component, bool) {
	comp, err := s.components.Resolve(c.Param("type"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return comp, true
}

// fail maps domain errors onto status codes. Anything unexpected is logged
// and reported as a 500 without its message.
func (s *Server) fail(c *gin.Context, err error) {
	var rejected *state.ValidationFailedError
	switch {
	case errors.As(err, &rejected):
		invalid(c, rejected.Result)
	case errors.Is(err, registry.ErrTypeNotFound), errors.Is(err, state.ErrNotFound):
		failure(c, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrInvalidID):
		failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, state.ErrTypeMismatch):
		failure(c, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed",
			slog.String("route", c.FullPath()),
			slog.Any("error", err))
		failure(c, http.StatusInternalServerError, "internal server error")
	}
}
