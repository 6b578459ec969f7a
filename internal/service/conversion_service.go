package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/dto"
	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

const inputLayout = "2006-01-02 15:04"

type termProvider interface {
	Terms(ctx context.Context, year int) (models.TermSet, error)
}

// ConversionService remaps southern-hemisphere birth instants onto the mirrored northern term.
type ConversionService struct {
	terms     termProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewConversionService constructs the converter.
func NewConversionService(terms termProvider, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ConversionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionService{terms: terms, validator: validate, metrics: metrics, logger: logger}
}

// Convert resolves the term interval of the input and, for southern input, shifts it into the
// mirrored term keeping the offset from the start of the term.
func (s *ConversionService) Convert(ctx context.Context, req dto.ConvertRequest) (*models.ConversionResult, error) {
	hemisphere := models.Hemisphere(req.Hemisphere)
	result, err := s.convert(ctx, hemisphere, req)
	outcome := "ok"
	if err != nil {
		outcome = appErrors.FromError(err).Code
	}
	s.metrics.RecordConversion(hemisphere, outcome)
	return result, err
}

func (s *ConversionService) convert(ctx context.Context, hemisphere models.Hemisphere, req dto.ConvertRequest) (*models.ConversionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	input, err := time.ParseInLocation(inputLayout, strings.TrimSpace(req.Date)+" "+strings.TrimSpace(req.Time), time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date and time must be YYYY-MM-DD and HH:MM")
	}

	year := int(req.Year)
	set, err := s.terms.Terms(ctx, year)
	if err != nil {
		return nil, err
	}

	window, ok := FindTermRange(input, set.Terms, year)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrTermLookup, "solar term table is incomplete")
	}

	result := &models.ConversionResult{
		Hemisphere:  hemisphere,
		Year:        year,
		Input:       input,
		Output:      input,
		CurrentTerm: window.Current.Name,
		ActualTerm:  window.Current.Name,
		InputWindow: window,
		Source:      set.Source,
	}
	if hemisphere == models.HemisphereNorth {
		return result, nil
	}

	mirroredName, ok := window.Current.Name.Pair()
	if !ok {
		return nil, appErrors.ErrTermLookup
	}
	mirroredMonth, _ := mirroredName.Month()

	targetYear := year
	if mirroredMonth > input.Month() {
		targetYear = year - 1
	}
	if targetYear < MinTermYear {
		return nil, appErrors.Clone(appErrors.ErrValidation, "input is before the earliest convertible year")
	}

	targetSet := set
	if targetYear != year {
		targetSet, err = s.terms.Terms(ctx, targetYear)
		if err != nil {
			return nil, err
		}
	}

	mirrored, ok := targetSet.Find(mirroredName)
	if !ok {
		s.logger.Error("mirrored solar term missing",
			zap.String("term", string(mirroredName)),
			zap.Int("target_year", targetYear),
			zap.String("source", string(targetSet.Source)),
		)
		return nil, appErrors.ErrTermLookup
	}

	mirroredAt := mirrored.At()
	output := mirroredAt.Add(input.Sub(window.Current.At))

	outWindow, ok := FindTermRange(output, targetSet.Terms, targetYear)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrTermLookup, "solar term table is incomplete")
	}

	result.Output = output
	result.ActualTerm = mirroredName
	result.OutputWindow = &outWindow
	result.MirroredTerm = &models.ResolvedTerm{SolarTerm: mirrored, At: mirroredAt}
	if targetSet.Source == models.TermSourceLocal {
		result.Source = models.TermSourceLocal
	}

	return result, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid conversion payload"
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "oneof":
			fields = append(fields, strings.ToLower(fe.Field())+" must be one of: "+fe.Param())
		case "min", "max":
			fields = append(fields, fmt.Sprintf("%s must be between %d and %d", strings.ToLower(fe.Field()), MinTermYear, MaxTermYear))
		default:
			fields = append(fields, strings.ToLower(fe.Field())+" is required")
		}
	}
	return strings.Join(fields, "; ")
}
