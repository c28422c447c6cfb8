package domain

// ChartData натальная карта в виде, который уходит в промпт модели
type ChartData struct {
	Data    map[string]any `json:"data"`
	Aspects []any          `json:"aspects"`
}

func EmptyChart() ChartData {
	return ChartData{
		Data:    map[string]any{},
		Aspects: []any{},
	}
}

func (c ChartData) IsEmpty() bool {
	return len(c.Data) == 0 && len(c.Aspects) == 0
}
