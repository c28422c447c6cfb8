package domain

// ZodiacUnknown подставляется, если знак вычислить не удалось
const ZodiacUnknown = "Unknown"

// BirthData провалидированные данные о рождении из тела запроса
type BirthData struct {
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	BirthLocation string `json:"birth_location"`
	BirthCountry  string `json:"birth_country"`
}

// UserProfile запись профиля, ключ user_id
type UserProfile struct {
	UserID               string  `json:"user_id" dynamodbav:"user_id" db:"user_id"`
	BirthDate            string  `json:"birth_date" dynamodbav:"birth_date" db:"birth_date"`
	BirthTime            string  `json:"birth_time" dynamodbav:"birth_time" db:"birth_time"`
	BirthLocation        string  `json:"birth_location" dynamodbav:"birth_location" db:"birth_location"`
	BirthCountry         string  `json:"birth_country" dynamodbav:"birth_country" db:"birth_country"`
	ZodiacSign           string  `json:"zodiac_sign" dynamodbav:"zodiac_sign" db:"zodiac_sign"`
	Email                *string `json:"email,omitempty" dynamodbav:"email,omitempty" db:"email"`
	CreatedAt            int64   `json:"created_at" dynamodbav:"created_at" db:"created_at"`
	UpdatedAt            int64   `json:"updated_at" dynamodbav:"updated_at" db:"updated_at"`
	ChartGenerated       bool    `json:"chart_generated" dynamodbav:"chart_generated" db:"chart_generated"`
	LastChartGeneratedAt *int64  `json:"last_chart_generated_at" dynamodbav:"last_chart_generated_at" db:"last_chart_generated_at"`
	Timezone             *string `json:"timezone" dynamodbav:"timezone" db:"timezone"`
}

// ProfileView профиль в ответе POST /profile
type ProfileView struct {
	UserID        string `json:"user_id"`
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	BirthLocation string `json:"birth_location"`
	BirthCountry  string `json:"birth_country"`
	ZodiacSign    string `json:"zodiac_sign"`
	CreatedAt     int64  `json:"created_at"`
	Email         string `json:"email,omitempty"`
}

func (p *UserProfile) View() ProfileView {
	view := ProfileView{
		UserID:        p.UserID,
		BirthDate:     p.BirthDate,
		BirthTime:     p.BirthTime,
		BirthLocation: p.BirthLocation,
		BirthCountry:  p.BirthCountry,
		ZodiacSign:    p.ZodiacSign,
		CreatedAt:     p.CreatedAt,
	}
	if p.Email != nil {
		view.Email = *p.Email
	}
	return view
}
