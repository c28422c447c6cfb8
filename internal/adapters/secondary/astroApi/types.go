package astroApi

// BirthData данные о рождении для запроса к API
type BirthData struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// Person субъект натальной карты
type Person struct {
	Name      string    `json:"name"`
	BirthData BirthData `json:"birth_data"`
}

type ChartOptions struct {
	HouseSystem  string   `json:"house_system"` // "P" - Плацидус
	ZodiacType   string   `json:"zodiac_type"`  // "Tropic"
	ActivePoints []string `json:"active_points"`
	Precision    int      `json:"precision"`
}

type NatalChartRequest struct {
	Subject Person       `json:"subject"`
	Options ChartOptions `json:"options"`
}

// NatalChartResponse ответ API
type NatalChartResponse struct {
	Status    string          `json:"status"`
	Code      int             `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Data      *NatalChartData `json:"data,omitempty"`
}

type NatalChartData struct {
	Planets []PlanetPosition `json:"planets,omitempty"`
	Houses  []HousePosition  `json:"houses,omitempty"`
	Aspects []Aspect         `json:"aspects,omitempty"`
}

type PlanetPosition struct {
	Name   string  `json:"name"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
	House  int     `json:"house,omitempty"`
}

type HousePosition struct {
	House  int     `json:"house"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
}

type Aspect struct {
	Planet1 string  `json:"planet1"`
	Planet2 string  `json:"planet2"`
	Aspect  string  `json:"aspect"`
	Orb     float64 `json:"orb"`
}
