package domain

// BusinessStatus статус заведения
type BusinessStatus string

const (
	BusinessActive   BusinessStatus = "ativa"
	BusinessInactive BusinessStatus = "inativa"
)

// Business заведение, принимающее онлайн-записи по уникальной ссылке
type Business struct {
	ID      string
	Name    string
	Slug    string
	Status  BusinessStatus
	Phone   *string
	LogoURL *string
}

// IsActive возвращает true, если заведение принимает записи
func (b *Business) IsActive() bool {
	return b.Status == BusinessActive
}

// BookingConfig настройки онлайн-записи заведения
type BookingConfig struct {
	ID                  string
	BusinessID          string
	Enabled             bool
	WelcomeMessage      *string
	ConfirmationMessage *string
}
