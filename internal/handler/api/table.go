package api

import (
	"errors"
	"net/http"

	"cuetab/internal/pkg/errs"
	"cuetab/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TableHandler struct {
	queries queries.TableQueries
}

func NewTableHandler(qs queries.TableQueries) *TableHandler {
	return &TableHandler{queries: qs}
}

// @Summary List tables
// @Description List all tables with their occupancy status
// @Tags tables
// @Produce json
// @Success 200 {array} queries.TableView
// @Router /tables [get]
func (h *TableHandler) ListTables(c *gin.Context) {
	views, err := h.queries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get table
// @Description Get a table by ID
// @Tags tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} queries.TableView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [get]
func (h *TableHandler) GetTable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table ID format"})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Get active layout
// @Description Get the active floor plan with its tables
// @Tags tables
// @Produce json
// @Success 200 {object} queries.LayoutView
// @Router /tables/layout [get]
func (h *TableHandler) GetActiveLayout(c *gin.Context) {
	layout, err := h.queries.ActiveLayout(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"layout": layout})
}

// @Summary List active tariffs
// @Description List tariffs available for new sessions
// @Tags tariffs
// @Produce json
// @Success 200 {array} tariff.Tariff
// @Router /tariffs [get]
func (h *TableHandler) ListActiveTariffs(c *gin.Context) {
	tariffs, err := h.queries.ActiveTariffs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tariffs)
}
