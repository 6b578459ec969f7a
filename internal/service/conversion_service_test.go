package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/jieqi-converter/internal/dto"
	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

type stubTermProvider struct {
	sets  map[int]models.TermSet
	err   error
	years []int
}

func (s *stubTermProvider) Terms(ctx context.Context, year int) (models.TermSet, error) {
	s.years = append(s.years, year)
	if s.err != nil {
		return models.TermSet{}, s.err
	}
	if set, ok := s.sets[year]; ok {
		return set, nil
	}
	return LocalSolarTerms(year), nil
}

func convertRequest(hemisphere string, year int, date, clock string) dto.ConvertRequest {
	return dto.ConvertRequest{Hemisphere: hemisphere, Year: dto.FlexibleYear(year), Date: date, Time: clock}
}

func TestConvertSouthernSummerSolstice(t *testing.T) {
	provider := &stubTermProvider{}
	svc := NewConversionService(provider, nil, nil, nil)

	result, err := svc.Convert(context.Background(), convertRequest("south", 2008, "2008-06-21", "12:00"))
	require.NoError(t, err)

	assert.Equal(t, models.TermXiazhi, result.CurrentTerm)
	assert.Equal(t, models.TermDongzhi, result.ActualTerm)
	assert.Equal(t, at(2008, time.June, 21, 7, 59), result.InputWindow.Current.At)
	require.NotNil(t, result.MirroredTerm)
	assert.Equal(t, at(2007, time.December, 21, 20, 4), result.MirroredTerm.At)
	assert.Equal(t, at(2007, time.December, 22, 0, 5), result.Output)
	require.NotNil(t, result.OutputWindow)
	assert.Equal(t, models.TermDongzhi, result.OutputWindow.Current.Name)
	assert.Equal(t, models.TermDaxue, result.OutputWindow.Prev.Name)
	assert.Equal(t, models.TermXiaohan, result.OutputWindow.Next.Name)
	assert.Equal(t, models.TermSourceLocal, result.Source)
	assert.Equal(t, []int{2008, 2007}, provider.years)
}

func TestConvertNorthernIsIdentity(t *testing.T) {
	svc := NewConversionService(&stubTermProvider{}, nil, nil, nil)

	for _, q := range []time.Time{
		at(2008, time.February, 4, 19, 0),
		at(2008, time.June, 21, 12, 0),
		at(2008, time.October, 1, 3, 30),
		at(2009, time.January, 15, 23, 59),
	} {
		result, err := svc.Convert(context.Background(), convertRequest("north", 2008, q.Format("2006-01-02"), q.Format("15:04")))
		require.NoError(t, err)
		assert.Equal(t, q, result.Input)
		assert.Equal(t, q, result.Output)
		assert.Equal(t, result.CurrentTerm, result.ActualTerm)
		assert.Nil(t, result.OutputWindow)
		assert.Nil(t, result.MirroredTerm)
	}
}

func TestConvertSouthernPreservesOffset(t *testing.T) {
	svc := NewConversionService(&stubTermProvider{}, nil, nil, nil)
	start := at(2008, time.February, 4, 19, 0)

	for q := start; q.Before(start.AddDate(1, 0, 0)); q = q.Add(37 * time.Hour) {
		result, err := svc.Convert(context.Background(), convertRequest("south", 2008, q.Format("2006-01-02"), q.Format("15:04")))
		require.NoError(t, err, q.String())

		pair, ok := result.CurrentTerm.Pair()
		require.True(t, ok)
		assert.Equal(t, pair, result.ActualTerm)
		require.NotNil(t, result.MirroredTerm)
		assert.Equal(t, q.Sub(result.InputWindow.Current.At), result.Output.Sub(result.MirroredTerm.At), q.String())
	}
}

// The target year rule compares the mirrored term's month with the input month only,
// so January and July inputs land in unexpected calendar years. These cases pin that rule.
func TestConvertSouthernYearBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		date     string
		clock    string
		current  models.TermName
		actual   models.TermName
		expected time.Time
	}{
		{"january input maps two years back", "2009-01-10", "00:00", models.TermXiaohan, models.TermXiaoshu, at(2007, time.July, 11, 12, 13)},
		{"july input maps into the next january", "2008-07-10", "12:00", models.TermXiaoshu, models.TermXiaohan, at(2009, time.January, 8, 23, 47)},
		{"december input stays in year", "2008-12-25", "00:00", models.TermDongzhi, models.TermXiazhi, at(2008, time.June, 24, 11, 55)},
		{"spring start maps to autumn start", "2008-02-04", "19:00", models.TermLichun, models.TermLiqiu, at(2007, time.August, 7, 11, 16)},
	}

	svc := NewConversionService(&stubTermProvider{}, nil, nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Convert(context.Background(), convertRequest("south", 2008, tc.date, tc.clock))
			require.NoError(t, err)
			assert.Equal(t, tc.current, result.CurrentTerm)
			assert.Equal(t, tc.actual, result.ActualTerm)
			assert.Equal(t, tc.expected, result.Output)
		})
	}
}

func TestConvertValidation(t *testing.T) {
	cases := []struct {
		name string
		req  dto.ConvertRequest
	}{
		{"malformed date", convertRequest("south", 2008, "2008-13-40", "12:00")},
		{"malformed time", convertRequest("south", 2008, "2008-06-21", "25:61")},
		{"twelve hour clock", convertRequest("north", 2008, "2008-06-21", "1:00 PM")},
		{"unknown hemisphere", convertRequest("east", 2008, "2008-06-21", "12:00")},
		{"missing hemisphere", convertRequest("", 2008, "2008-06-21", "12:00")},
		{"year zero", convertRequest("north", 0, "2008-06-21", "12:00")},
		{"year too large", convertRequest("north", 10000, "2008-06-21", "12:00")},
		{"missing date", convertRequest("north", 2008, "", "12:00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubTermProvider{}
			svc := NewConversionService(provider, nil, nil, nil)

			result, err := svc.Convert(context.Background(), tc.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Empty(t, provider.years)
		})
	}
}

func TestConvertValidationMessageNamesField(t *testing.T) {
	svc := NewConversionService(&stubTermProvider{}, nil, nil, nil)

	_, err := svc.Convert(context.Background(), convertRequest("east", 2008, "2008-06-21", "12:00"))
	require.Error(t, err)
	assert.Equal(t, "hemisphere must be one of: north south", appErrors.FromError(err).Message)
}

func TestConvertSouthernBeforeFirstYear(t *testing.T) {
	svc := NewConversionService(&stubTermProvider{}, nil, nil, nil)

	_, err := svc.Convert(context.Background(), convertRequest("south", 1, "0001-06-21", "12:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestConvertMissingMirroredTerm(t *testing.T) {
	partial := LocalSolarTerms(2007)
	terms := make([]models.SolarTerm, 0, len(partial.Terms))
	for _, term := range partial.Terms {
		if term.Name != models.TermDongzhi {
			terms = append(terms, term)
		}
	}
	partial.Terms = terms

	metrics := NewMetricsService()
	svc := NewConversionService(&stubTermProvider{sets: map[int]models.TermSet{2007: partial}}, nil, metrics, nil)

	result, err := svc.Convert(context.Background(), convertRequest("south", 2008, "2008-06-21", "12:00"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, appErrors.ErrTermLookup)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.conversions.WithLabelValues("south", appErrors.ErrTermLookup.Code)))
}

func TestConvertIncompleteTable(t *testing.T) {
	broken := models.TermSet{Year: 2008, Source: models.TermSourceRemote, Terms: LocalSolarTerms(2008).Terms[:1]}
	svc := NewConversionService(&stubTermProvider{sets: map[int]models.TermSet{2008: broken}}, nil, nil, nil)

	_, err := svc.Convert(context.Background(), convertRequest("north", 2008, "2008-06-21", "12:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrTermLookup)
}

func TestConvertPropagatesProviderError(t *testing.T) {
	svc := NewConversionService(&stubTermProvider{err: errors.New("boom")}, nil, nil, nil)

	_, err := svc.Convert(context.Background(), convertRequest("north", 2008, "2008-06-21", "12:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestConvertReportsWeakestSource(t *testing.T) {
	remote := LocalSolarTerms(2008)
	remote.Source = models.TermSourceRemote
	svc := NewConversionService(&stubTermProvider{sets: map[int]models.TermSet{2008: remote}}, nil, nil, nil)

	north, err := svc.Convert(context.Background(), convertRequest("north", 2008, "2008-06-21", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, models.TermSourceRemote, north.Source)

	south, err := svc.Convert(context.Background(), convertRequest("south", 2008, "2008-06-21", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, models.TermSourceLocal, south.Source)
}

func TestConvertCountsOutcomes(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewConversionService(&stubTermProvider{}, nil, metrics, nil)

	_, err := svc.Convert(context.Background(), convertRequest("south", 2008, "2008-06-21", "12:00"))
	require.NoError(t, err)
	_, err = svc.Convert(context.Background(), convertRequest("south", 2008, "2008-13-40", "12:00"))
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.conversions.WithLabelValues("south", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.conversions.WithLabelValues("south", appErrors.ErrValidation.Code)))
}

func TestConvertBoundsHemisphereLabels(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewConversionService(&stubTermProvider{}, nil, metrics, nil)

	for i := 0; i < 50; i++ {
		_, err := svc.Convert(context.Background(), convertRequest(fmt.Sprintf("junk-%d", i), 2008, "2008-06-21", "12:00"))
		require.Error(t, err)
	}
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.conversions))

	_, err := svc.Convert(context.Background(), convertRequest("north", 2008, "2008-06-21", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.conversions))
	assert.Equal(t, float64(50), testutil.ToFloat64(metrics.conversions.WithLabelValues("invalid", appErrors.ErrValidation.Code)))
}
