package zodiac

import (
	"fmt"
	"time"
)

// boundary первый день знака в тропическом зодиаке
type boundary struct {
	month time.Month
	day   int
	sign  string
}

// по возрастанию даты начала, Козерог переходит через новый год
var boundaries = []boundary{
	{time.January, 20, "Aquarius"},
	{time.February, 19, "Pisces"},
	{time.March, 21, "Aries"},
	{time.April, 20, "Taurus"},
	{time.May, 21, "Gemini"},
	{time.June, 21, "Cancer"},
	{time.July, 23, "Leo"},
	{time.August, 23, "Virgo"},
	{time.September, 23, "Libra"},
	{time.October, 23, "Scorpio"},
	{time.November, 22, "Sagittarius"},
	{time.December, 22, "Capricorn"},
}

// Calculator солнечный знак по дате рождения
type Calculator struct{}

func New() *Calculator {
	return &Calculator{}
}

func (c *Calculator) SignFor(birthDate string) (string, error) {
	date, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return "", fmt.Errorf("invalid birth date %q: %w", birthDate, err)
	}

	sign := "Capricorn"
	for _, b := range boundaries {
		if date.Month() > b.month || (date.Month() == b.month && date.Day() >= b.day) {
			sign = b.sign
		}
	}
	return sign, nil
}
