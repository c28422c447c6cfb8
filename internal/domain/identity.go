package domain

// Identity проверенная шлюзом личность вызывающего
type Identity struct {
	UserID string
	Email  string
}
