package handlers

import (
	"net/http"
	"strings"
	"time"

	response "invoice_management/internal/adapter/http/dto/response"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	usecase usecase.IDashboardUseCase
}

func NewDashboardHandler(uc usecase.IDashboardUseCase) *DashboardHandler {
	return &DashboardHandler{usecase: uc}
}

// GetDashboard godoc
// @Summary      Dashboard
// @Description  Monthly sales and reconciled payments, total unpaid on SENT and OVERDUE invoices, invoice status counts, the five most overdue invoices and recent activity.
// @Tags         dashboard
// @Produce      json
// @Param        as_of  query     string  false  "Reference instant (RFC3339), defaults to now"
// @Success      200    {object}  response.Envelope
// @Failure      400    {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	var asOf time.Time
	if raw := strings.TrimSpace(c.Query("as_of")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortInvalidRequest(c)
			return
		}
		asOf = parsed
	}

	d, err := h.usecase.GetDashboard(c.Request.Context(), middleware.OwnerID(c), asOf)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromDashboard(d)))
}
