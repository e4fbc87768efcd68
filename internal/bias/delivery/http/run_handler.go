package http

import (
	"net/http"
	"strconv"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/service"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultRunLimit = 50

// RunHandler handles HTTP requests for pipeline runs.
type RunHandler struct {
	runService service.RunService
	logger     *logger.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runService service.RunService, logger *logger.Logger) *RunHandler {
	return &RunHandler{runService: runService, logger: logger}
}

// RegisterRoutes registers the run routes to the Echo group.
func (h *RunHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListRuns)
	g.GET("/:id", h.GetRun)
	g.POST("/:mode", h.EnqueueRun)
}

// ListRuns godoc
// @Summary List recent runs
// @Tags runs
// @Produce  json
// @Param   limit  query  int false "Number of runs (default 50)"
// @Success 200 {array} dto.RunResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [get]
func (h *RunHandler) ListRuns(c echo.Context) error {
	limit := defaultRunLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.runService.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary Get a run by its run id
// @Tags runs
// @Produce  json
// @Param   id  path  string true "Run ID"
// @Success 200 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(c echo.Context) error {
	run, err := h.runService.FindByRunID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// EnqueueRun godoc
// @Summary Enqueue a run
// @Description Publish a run request on the recalculation stream
// @Tags runs
// @Produce  json
// @Param   mode  path  string true "Run mode (weekly, hourly, events, high_impact, drivers)"
// @Success 202 {object} dto.RunRequest
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/{mode} [post]
func (h *RunHandler) EnqueueRun(c echo.Context) error {
	mode := entity.RunMode(c.Param("mode"))
	runID, err := h.runService.Enqueue(c.Request().Context(), mode, common.TriggerAPI)
	if err != nil {
		h.logger.Error("Failed to enqueue run", logger.ErrorField(err), logger.StringField("mode", string(mode)))
		return writeError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.RunRequest{RunID: runID, Mode: mode, Trigger: common.TriggerAPI})
}
