package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/dto"
	"github.com/noah-isme/jieqi-converter/internal/middleware"
	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
	"github.com/noah-isme/jieqi-converter/pkg/response"
)

type conversionService interface {
	Convert(ctx context.Context, req dto.ConvertRequest) (*models.ConversionResult, error)
}

// ConversionHandler converts birth date/times between hemispheres.
type ConversionHandler struct {
	service conversionService
	logger  *zap.Logger
}

// NewConversionHandler constructs the handler.
func NewConversionHandler(service conversionService, logger *zap.Logger) *ConversionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionHandler{service: service, logger: logger}
}

// Convert godoc
// @Summary Convert a birth date/time to the northern-hemisphere equivalent
// @Tags Conversion
// @Accept json
// @Produce json
// @Param payload body dto.ConvertRequest true "Conversion input"
// @Success 200 {object} response.Envelope{data=dto.ConvertResponse}
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /convert [post]
func (h *ConversionHandler) Convert(c *gin.Context) {
	result, err := h.convert(c)
	if err != nil {
		logFailure(c, h.logger, err)
		response.Error(c, err)
		return
	}
	middleware.SetTermSource(c, result.Source)
	response.JSON(c, http.StatusOK, dto.NewConvertResponse(result), middleware.ExtractMeta(c))
}

// LegacyConvert serves /api/convert in the legacy flat shape.
func (h *ConversionHandler) LegacyConvert(c *gin.Context) {
	result, err := h.convert(c)
	if err != nil {
		logFailure(c, h.logger, err)
		response.LegacyError(c, err)
		return
	}
	response.Legacy(c, gin.H{"data": dto.NewConvertResponse(result)})
}

func (h *ConversionHandler) convert(c *gin.Context) (*models.ConversionResult, error) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body")
	}
	return h.service.Convert(c.Request.Context(), req)
}
