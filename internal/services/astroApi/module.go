package astroApi

import (
	"context"
	"fmt"
	"strings"
	"time"

	astroApiAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/secondary/astroApi"
	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

var activePoints = []string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"}

type natalChartClient interface {
	CalculateNatalChart(ctx context.Context, req astroApiAdapter.NatalChartRequest) (*astroApiAdapter.NatalChartResponse, error)
}

// Service считает натальную карту профиля во внешнем астро-API
type Service struct {
	client natalChartClient
}

func New(client natalChartClient) *Service {
	return &Service{
		client: client,
	}
}

func (s *Service) CalculateChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, error) {
	birth, err := time.Parse("2006-01-02 15:04", profile.BirthDate+" "+profile.BirthTime)
	if err != nil {
		return domain.ChartData{}, fmt.Errorf("invalid birth datetime: %w", err)
	}

	req := astroApiAdapter.NatalChartRequest{
		Subject: astroApiAdapter.Person{
			Name: "User",
			BirthData: astroApiAdapter.BirthData{
				Year:        birth.Year(),
				Month:       int(birth.Month()),
				Day:         birth.Day(),
				Hour:        birth.Hour(),
				Minute:      birth.Minute(),
				City:        profile.BirthLocation,
				CountryCode: countryCode(profile.BirthCountry),
			},
		},
		Options: astroApiAdapter.ChartOptions{
			HouseSystem:  "P",
			ZodiacType:   "Tropic",
			ActivePoints: activePoints,
			Precision:    2,
		},
	}

	resp, err := s.client.CalculateNatalChart(ctx, req)
	if err != nil {
		return domain.ChartData{}, fmt.Errorf("failed to calculate natal chart: %w", err)
	}

	return toChartData(resp.Data), nil
}

// toChartData планеты по имени, дома списком под ключом houses
func toChartData(data *astroApiAdapter.NatalChartData) domain.ChartData {
	chart := domain.EmptyChart()
	if data == nil {
		return chart
	}

	for _, p := range data.Planets {
		chart.Data[p.Name] = map[string]any{
			"sign":   p.Sign,
			"degree": p.Degree,
			"house":  p.House,
		}
	}

	if len(data.Houses) > 0 {
		houses := make([]any, 0, len(data.Houses))
		for _, h := range data.Houses {
			houses = append(houses, map[string]any{
				"house":  h.House,
				"sign":   h.Sign,
				"degree": h.Degree,
			})
		}
		chart.Data["houses"] = houses
	}

	for _, a := range data.Aspects {
		chart.Aspects = append(chart.Aspects, map[string]any{
			"planet1": a.Planet1,
			"planet2": a.Planet2,
			"aspect":  a.Aspect,
			"orb":     a.Orb,
		})
	}

	return chart
}

// countryCode двухбуквенный код как есть, иначе страна уходит строкой и API разрешает её сам
func countryCode(country string) string {
	country = strings.TrimSpace(country)
	if len(country) == 2 {
		return strings.ToUpper(country)
	}
	if code, ok := knownCountries[strings.ToLower(country)]; ok {
		return code
	}
	return country
}

var knownCountries = map[string]string{
	"united states":            "US",
	"united states of america": "US",
	"usa":                      "US",
	"united kingdom":           "GB",
	"canada":                   "CA",
	"australia":                "AU",
	"germany":                  "DE",
	"france":                   "FR",
	"china":                    "CN",
	"india":                    "IN",
	"japan":                    "JP",
	"mexico":                   "MX",
	"brazil":                   "BR",
	"russia":                   "RU",
}
