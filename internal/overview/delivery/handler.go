package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "rec-webapp-backend/internal/auth/delivery"
	authUsecase "rec-webapp-backend/internal/auth/usecase"
	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/internal/overview/usecase"
)

// OverviewHandler serves the dashboard aggregation.
type OverviewHandler struct {
	overviewUsecase usecase.OverviewUsecase
	authUsecase     authUsecase.AuthUsecase
}

func NewOverviewHandler(overviewUc usecase.OverviewUsecase, authUc authUsecase.AuthUsecase) *OverviewHandler {
	return &OverviewHandler{
		overviewUsecase: overviewUc,
		authUsecase:     authUc,
	}
}

// Overview returns user and community KPIs plus the 7-day trend.
// GET /api/overview
func (h *OverviewHandler) Overview(c *gin.Context) {
	identity := authdelivery.IdentityFromContext(c)

	if _, err := h.authUsecase.EnsureUser(identity); err != nil {
		httperr.JSON(c, err)
		return
	}

	overview, err := h.overviewUsecase.Build(c.Request.Context(), identity)
	if err != nil {
		httperr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
