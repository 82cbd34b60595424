// Package checkout определяет последовательность шагов оформления заказа.
package checkout

import "github.com/mmeshcher/hempmart-system/internal/model"

// Step обозначает шаг оформления заказа.
type Step string

const (
	StepAddress  Step = "address"
	StepDelivery Step = "delivery"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// Steps перечисляет шаги оформления в порядке прохождения.
var Steps = []Step{StepAddress, StepDelivery, StepPayment, StepReview}

// StepFromCart вычисляет по состоянию корзины самый дальний достигнутый шаг.
// Правила применяются по порядку, срабатывает первое:
//   - нет адреса или email — шаг address;
//   - не выбран способ доставки — шаг delivery;
//   - иначе — шаг payment.
//
// Шаг review из состояния корзины не выводится: он достигается только
// явной навигацией после оплаты.
func StepFromCart(c *model.Cart) Step {
	if c == nil {
		return StepAddress
	}
	if c.ShippingAddress == nil || c.ShippingAddress.Address1 == "" || c.Email == "" {
		return StepAddress
	}
	if len(c.ShippingMethods) == 0 {
		return StepDelivery
	}
	return StepPayment
}

// ParseStep принимает значение шага из URL и возвращает его, если оно
// корректно. Переопределение действует только на отображение; пустое или
// неизвестное значение заменяется на вычисленный шаг.
func ParseStep(raw string, derived Step) Step {
	for _, s := range Steps {
		if raw == string(s) {
			return s
		}
	}
	return derived
}

// index возвращает позицию шага в порядке прохождения.
func index(step Step) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return 0
}

// VisibleSections возвращает секции, отображаемые на текущем шаге.
// Секции показываются накопительно: пройденные шаги остаются видимыми
// рядом с активным.
func VisibleSections(current Step) []Step {
	return Steps[:index(current)+1]
}

// IsVisible сообщает, что секция шага отображается при указанном текущем шаге.
func IsVisible(section, current Step) bool {
	return index(section) <= index(current)
}
