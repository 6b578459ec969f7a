package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/dto"
	"github.com/noah-isme/jieqi-converter/internal/middleware"
	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
	"github.com/noah-isme/jieqi-converter/pkg/export"
	"github.com/noah-isme/jieqi-converter/pkg/response"
)

type solarTermService interface {
	Terms(ctx context.Context, year int) (models.TermSet, error)
}

// SolarTermHandler serves the solar terms of a year.
type SolarTermHandler struct {
	service solarTermService
	logger  *zap.Logger
}

// NewSolarTermHandler constructs the handler.
func NewSolarTermHandler(service solarTermService, logger *zap.Logger) *SolarTermHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolarTermHandler{service: service, logger: logger}
}

// Get godoc
// @Summary List the 24 solar terms of a year
// @Tags SolarTerms
// @Produce json
// @Produce text/csv
// @Param year path int true "Solar year (1-9998)"
// @Param format query string false "json (default) or csv"
// @Success 200 {object} response.Envelope{data=dto.SolarTermsResponse}
// @Failure 400 {object} response.Envelope
// @Router /solar-terms/{year} [get]
func (h *SolarTermHandler) Get(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json or csv"))
		return
	}

	set, err := h.load(c)
	if err != nil {
		logFailure(c, h.logger, err)
		response.Error(c, err)
		return
	}
	middleware.SetTermSource(c, set.Source)
	body := dto.NewSolarTermsResponse(set)

	if format == "csv" {
		h.writeCSV(c, body)
		return
	}
	response.JSON(c, http.StatusOK, body, middleware.ExtractMeta(c))
}

func (h *SolarTermHandler) writeCSV(c *gin.Context, body dto.SolarTermsResponse) {
	var buf bytes.Buffer
	table := export.Table{Headers: dto.SolarTermCSVHeaders, Rows: dto.SolarTermsCSVRows(body)}
	if err := export.WriteCSV(&buf, table, export.CSVOptions{BOM: true}); err != nil {
		err = appErrors.FromError(err)
		logFailure(c, h.logger, err)
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="solar-terms-%d.csv"`, body.Year))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// LegacyGet serves /api/solar_terms/:year in the legacy flat shape.
func (h *SolarTermHandler) LegacyGet(c *gin.Context) {
	set, err := h.load(c)
	if err != nil {
		logFailure(c, h.logger, err)
		response.LegacyError(c, err)
		return
	}
	body := dto.NewSolarTermsResponse(set)
	response.Legacy(c, gin.H{"terms": body.Terms, "source": body.Source})
}

func (h *SolarTermHandler) load(c *gin.Context) (models.TermSet, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return models.TermSet{}, appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
	}
	return h.service.Terms(c.Request.Context(), year)
}
