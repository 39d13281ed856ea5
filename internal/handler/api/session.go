package api

import (
	"errors"
	"net/http"

	reqdto "cuetab/internal/handler/dto/request"
	resdto "cuetab/internal/handler/dto/response"
	"cuetab/internal/pkg/errs"
	"cuetab/internal/usecase/commands"
	"cuetab/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	commands commands.SessionCommands
	queries  queries.SessionQueries
}

func NewSessionHandler(cmds commands.SessionCommands, qs queries.SessionQueries) *SessionHandler {
	return &SessionHandler{
		commands: cmds,
		queries:  qs,
	}
}

// @Summary Start session
// @Description Start a new session on an available table
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body reqdto.StartSessionRequest true "Session start request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req reqdto.StartSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.commands.Start(c.Request.Context(), commands.StartSessionParams{
		TableID:     req.TableID,
		TariffID:    req.TariffID,
		PlayerCount: req.PlayerCount,
		Notes:       req.Notes,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSessionResult(result))
}

// @Summary Pause session
// @Description Pause an active session, releasing the table
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.PauseSessionRequest false "Pause request"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/pause [post]
func (h *SessionHandler) PauseSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req reqdto.PauseSessionRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	result, err := h.commands.Pause(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionResult(result))
}

// @Summary Resume session
// @Description Resume a paused session, reclaiming the table
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/resume [post]
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.commands.Resume(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionResult(result))
}

// @Summary End session
// @Description End a session and fix its final bill
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.EndSessionRequest false "End request"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sessions/{id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req reqdto.EndSessionRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	result, err := h.commands.End(c.Request.Context(), id, req.EndTime, req.Notes)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionResult(result))
}

// @Summary Add service to session
// @Description Attach an ad-hoc line item to an open session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.AddServiceRequest true "Service line item"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/services [post]
func (h *SessionHandler) AddService(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req reqdto.AddServiceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.commands.AddService(c.Request.Context(), id, commands.AddServiceParams{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionResult(result))
}

// @Summary Remove service from session
// @Description Remove a line item from an open session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param serviceId path string true "Service line item ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/services/{serviceId} [delete]
func (h *SessionHandler) RemoveService(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.commands.RemoveService(c.Request.Context(), id, c.Param("serviceId"))
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionResult(result))
}

// @Summary Get session
// @Description Get a session with its live quote
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} queries.SessionView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List active sessions
// @Description List open (active or paused) sessions with live quotes
// @Tags sessions
// @Produce json
// @Success 200 {array} queries.SessionView
// @Router /sessions/active [get]
func (h *SessionHandler) ListActiveSessions(c *gin.Context) {
	views, err := h.queries.ListActive(c.Request.Context())
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary List sessions
// @Description List sessions filtered by status, table and start window
// @Tags sessions
// @Produce json
// @Param status query string false "Session status" Enums(active, paused, ended)
// @Param tableId query string false "Table ID"
// @Param from query string false "Started from (RFC3339)"
// @Param until query string false "Started until (RFC3339)"
// @Param includeEnded query bool false "Include ended sessions"
// @Success 200 {array} queries.SessionView
// @Failure 400 {object} map[string]string
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var q reqdto.ListSessionsQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	views, err := h.queries.List(c.Request.Context(), queries.SessionFilter{
		Status:       q.Status,
		TableID:      q.TableID,
		StartedFrom:  q.StartedFrom,
		StartedUntil: q.StartedUntil,
		IncludeEnded: q.IncludeEnded,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, errs.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case errors.Is(err, errs.ErrTariffNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tariff not found"})
	case errors.Is(err, errs.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found in session"})
	case errors.Is(err, errs.ErrTableNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Table is not available"})
	case errors.Is(err, errs.ErrSessionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Table already has an open session"})
	case errors.Is(err, errs.ErrTariffRestriction):
		c.JSON(http.StatusConflict, gin.H{"error": "Tariff restrictions not met"})
	case errors.Is(err, errs.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not active"})
	case errors.Is(err, errs.ErrSessionNotPaused):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not paused"})
	case errors.Is(err, errs.ErrSessionAlreadyEnded):
		c.JSON(http.StatusConflict, gin.H{"error": "Session has already ended"})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Domain validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
