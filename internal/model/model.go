// Package model содержит доменные сущности витрины хемпмарт.
package model

import "time"

// Address представляет адрес доставки покупателя.
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Province    string `json:"province,omitempty"`
	CountryCode string `json:"country_code"`
}

// LineItem описывает позицию корзины.
type LineItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	ProductHandle string `json:"product_handle"`
	VariantID     string `json:"variant_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	LineTotal     int64  `json:"line_total"`
}

// ShippingMethod описывает назначенный корзине способ доставки.
type ShippingMethod struct {
	ID       string `json:"id"`
	OptionID string `json:"shipping_option_id"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

// Promotion описывает применённый к корзине промокод.
type Promotion struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Cart представляет корзину покупателя в том виде, в каком её отдаёт
// коммерс-бэкенд. Суммы хранятся в минорных единицах валюты.
type Cart struct {
	ID              string           `json:"id"`
	CurrencyCode    string           `json:"currency_code"`
	Email           string           `json:"email,omitempty"`
	ShippingAddress *Address         `json:"shipping_address,omitempty"`
	Items           []LineItem       `json:"items"`
	ShippingMethods []ShippingMethod `json:"shipping_methods"`
	Promotions      []Promotion      `json:"promotions"`
	Subtotal        int64            `json:"subtotal"`
}

// IsEmpty сообщает, что корзина отсутствует или не содержит ни одной позиции.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Variant описывает вариант товара. CalculatedPrice хранится в минорных
// единицах; nil означает, что цена для варианта не рассчитана.
type Variant struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	CalculatedPrice *int64 `json:"calculated_price,omitempty"`
	OriginalPrice   *int64 `json:"original_price,omitempty"`
}

// Product описывает товар каталога вместе с фасетами для фильтрации.
type Product struct {
	ID         string    `json:"id"`
	Handle     string    `json:"handle"`
	Title      string    `json:"title"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Variants   []Variant `json:"variants"`
	Categories []string  `json:"categories,omitempty"`
	Types      []string  `json:"types,omitempty"`
	Effects    []string  `json:"effects,omitempty"`
	Compounds  []string  `json:"compounds,omitempty"`
}

// Customer представляет покупателя с накопленными бонусными баллами.
type Customer struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	LoyaltyPoints int64  `json:"loyalty_points"`
}

// Signup описывает сохранённую заявку на почтовую подписку.
type Signup struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}
