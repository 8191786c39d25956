package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type DiscoveryHandler struct {
	search    services.SearchService
	dashboard services.DashboardService
}

func NewDiscoveryHandler(search services.SearchService, dashboard services.DashboardService) *DiscoveryHandler {
	return &DiscoveryHandler{search: search, dashboard: dashboard}
}

// GET /search/?q=
func (dh *DiscoveryHandler) Search(c *gin.Context) {
	out, err := dh.search.Search(dbc(c), c.Query("q"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /dashboard/
func (dh *DiscoveryHandler) Dashboard(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	out, err := dh.dashboard.Get(dbc(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}
