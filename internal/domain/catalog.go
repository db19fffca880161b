package domain

// Service услуга заведения
type Service struct {
	ID              string
	BusinessID      string
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
	Order           int
}

// ToLineItem снимок услуги для записи
func (s *Service) ToLineItem() LineItem {
	return LineItem{
		Kind:            LineItemService,
		SourceID:        s.ID,
		Name:            s.Name,
		UnitPrice:       s.Price,
		Quantity:        1,
		DurationMinutes: s.DurationMinutes,
	}
}

// Package пакет услуг, продаваемый как одна позиция
type Package struct {
	ID              string
	BusinessID      string
	Name            string
	Price           float64 // valor
	DurationMinutes int     // duracao_total, NULL в хранилище - 0
}

// ToLineItem снимок пакета для записи
func (p *Package) ToLineItem() LineItem {
	return LineItem{
		Kind:            LineItemPackage,
		SourceID:        p.ID,
		Name:            p.Name,
		UnitPrice:       p.Price,
		Quantity:        1,
		DurationMinutes: p.DurationMinutes,
	}
}

// Professional сотрудник заведения
type Professional struct {
	ID                  string
	BusinessID          string
	Name                string
	AvatarURL           *string
	PerformsAppointment bool
}
