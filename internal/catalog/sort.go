// Package catalog содержит сортировку и фильтрацию товаров витрины.
package catalog

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

// Поддерживаемые ключи сортировки каталога.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortCreatedAt = "created_at"
	SortTitleAZ   = "title_az"
	SortTitleZA   = "title_za"
)

// priceRange возвращает минимальную и максимальную расчётную цену по
// вариантам товара. Варианты без цены в расчёте не участвуют; товар без
// единой цены получает бесконечность и уходит в конец по возрастанию и в
// начало по убыванию.
func priceRange(p model.Product) (float64, float64) {
	minPrice := math.Inf(1)
	maxPrice := math.Inf(1)

	found := false
	for _, v := range p.Variants {
		if v.CalculatedPrice == nil {
			continue
		}
		price := float64(*v.CalculatedPrice)
		if !found {
			minPrice, maxPrice = price, price
			found = true
			continue
		}
		if price < minPrice {
			minPrice = price
		}
		if price > maxPrice {
			maxPrice = price
		}
	}

	return minPrice, maxPrice
}

// SortProducts возвращает отсортированную копию списка товаров. Исходный
// список не изменяется; равные элементы сохраняют исходный порядок.
// Неизвестный ключ сортировки оставляет порядок как есть.
func SortProducts(products []model.Product, sortKey string) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)

	switch sortKey {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			iMin, iMax := priceRange(sorted[i])
			jMin, jMax := priceRange(sorted[j])
			if iMin != jMin {
				return iMin < jMin
			}
			return iMax < jMax
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			iMin, iMax := priceRange(sorted[i])
			jMin, jMax := priceRange(sorted[j])
			if iMax != jMax {
				return iMax > jMax
			}
			return iMin > jMin
		})
	case SortCreatedAt:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case SortTitleAZ:
		c := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case SortTitleZA:
		c := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) > 0
		})
	}

	return sorted
}
