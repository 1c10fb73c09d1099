package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibedl/internal/models/request_models"
	"vibedl/internal/services"
	"vibedl/pkg/middleware"
	"vibedl/pkg/utils"
)

type DownloadController struct {
	downloadService services.DownloadServiceInterface
}

func NewDownloadController(downloadService services.DownloadServiceInterface) *DownloadController {
	return &DownloadController{
		downloadService: downloadService,
	}
}

// Create godoc
// @Summary Download and convert one or more media links
// @Tags Downloads
// @Accept json
// @Produce json
// @Param request body request_models.DownloadRequest true "Media URLs"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /downloads [post]
func (d *DownloadController) Create(c *gin.Context) {
	var req request_models.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	resp, err := d.downloadService.Process(c.Request.Context(), accountID, req.URLs)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Download complete")
}
