package resputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// Response is the uniform envelope returned by every endpoint.
type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"code": code,
		"data": data,
		"msg":  msg,
	})
}

func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse(c, http.StatusInternalServerError, msg, nil, errorCode)
}

func BadRequest(c *gin.Context, msg string) {
	wrapResponse(c, http.StatusBadRequest, msg, nil, InvalidRequest)
}

func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, errorCode)
}

// WrapServiceError maps the typed error taxonomy onto envelope codes so
// handlers stay one-liners on their error paths.
func WrapServiceError(c *gin.Context, err error) {
	var (
		confErr     *models.ConfigurationError
		unsupported *models.UnsupportedOperationError
		notFound    *models.NotFoundError
		upstream    *models.UpstreamError
		unknownProv *models.UnknownProviderError
		unknownUC   *models.UnknownUseCaseError
		unknownCat  *models.UnknownCategoryError
	)
	switch {
	case errors.As(err, &confErr):
		wrapResponse(c, http.StatusServiceUnavailable, err.Error(), nil, ProviderNotConfigured)
	case errors.As(err, &unsupported):
		wrapResponse(c, http.StatusBadRequest, err.Error(), nil, OperationUnsupported)
	case errors.As(err, &notFound):
		wrapResponse(c, http.StatusNotFound, err.Error(), nil, OfferingNotFound)
	case errors.As(err, &upstream):
		wrapResponse(c, http.StatusBadGateway, err.Error(), nil, UpstreamFailed)
	case errors.As(err, &unknownProv), errors.As(err, &unknownUC), errors.As(err, &unknownCat):
		wrapResponse(c, http.StatusBadRequest, err.Error(), nil, InvalidRequest)
	default:
		wrapResponse(c, http.StatusInternalServerError, err.Error(), nil, NotSpecified)
	}
}
