package service

// IZodiacCalculator вычисляет солнечный знак по дате YYYY-MM-DD
type IZodiacCalculator interface {
	SignFor(birthDate string) (string, error)
}
