package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/mailer/internal/repositories"
	"github.com/labstack/echo/v4"
)

const defaultRunLimit = 20

// RunHandler exposes the finder run ledger
type RunHandler struct {
	runRepository repositories.RunRepository
}

func NewRunHandler(runRepo repositories.RunRepository) *RunHandler {
	return &RunHandler{runRepository: runRepo}
}

func (h *RunHandler) RegisterRunRoutes(g *echo.Group) {
	g.GET("/runs", h.GetRuns)
}

type getRunsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// GetRuns lists the most recent finder runs
func (h *RunHandler) GetRuns(c echo.Context) error {
	var req getRunsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Limit == 0 {
		req.Limit = defaultRunLimit
	}

	runs, err := h.runRepository.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"runs": runs}})
}
