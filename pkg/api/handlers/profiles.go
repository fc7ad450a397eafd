package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/irhome/pkg/api/types"
)

// ListProfiles handles GET /profiles
// @Summary      List profiles
// @Description  Returns the device profiles and the control kinds they are built from
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  types.ProfilesResponse
// @Router       /profiles [get]
func ListProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewProfilesResponse())
}
