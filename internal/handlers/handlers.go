package handlers

import (
	"net/http"

	"loyalty-service/pkg/common"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	appErr := common.AsAppError(err)
	c.JSON(appErr.HTTPStatus(), common.NewAppErrorResponse(appErr))
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
}
