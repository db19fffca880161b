package domain

// Customer карточка клиента заведения.
// Идентичность клиента - номер телефона, нормализованный до цифр.
type Customer struct {
	ID          string
	BusinessID  string
	Name        string
	Phone       string // как введено, с форматированием
	PhoneDigits string
}
