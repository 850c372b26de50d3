package models

// Plan представляет тарифный план из каталога подписок.
// Для регистрации план должен существовать и быть активным.
type Plan struct {
	ID           string
	Name         string
	DisplayName  string
	Price        float64 // Цена за расчетный период
	BillingCycle string
	IsActive     bool
	Services     []PlanService // Включённые в план услуги
}

// PlanService — услуга, включённая в тарифный план.
type PlanService struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	ServiceType string
	Icon        string
}

// Label возвращает отображаемое имя плана с запасным вариантом,
// совпадающим с тем, что уходит в ответ регистрации.
func (p *Plan) Label() string {
	if p == nil {
		return "No Plan"
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Name != "" {
		return p.Name
	}
	return "No Plan"
}
