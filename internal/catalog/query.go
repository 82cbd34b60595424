package catalog

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

// Значения по умолчанию для параметров листинга.
const (
	DefaultSort      = SortCreatedAt
	DefaultCardStyle = "expanded"
	PageSize         = 12
)

// ListingQuery описывает состояние фильтров и сортировки каталога,
// сериализуемое в параметры URL.
type ListingQuery struct {
	SortBy     string
	Query      string
	Categories []string
	Types      []string
	Effects    []string
	Compounds  []string
	Page       int
	CardStyle  string
}

// DefaultListingQuery возвращает состояние листинга по умолчанию.
func DefaultListingQuery() ListingQuery {
	return ListingQuery{
		SortBy:    DefaultSort,
		Page:      1,
		CardStyle: DefaultCardStyle,
	}
}

var sortKeys = []string{SortPriceAsc, SortPriceDesc, SortCreatedAt, SortTitleAZ, SortTitleZA}

// ParseListingQuery разбирает параметры URL в состояние листинга.
// Разбор никогда не завершается ошибкой: отсутствующие и некорректные
// значения заменяются значениями по умолчанию. Фасеты принимаются и как
// одиночное, и как повторённое значение параметра.
func ParseListingQuery(values url.Values) ListingQuery {
	q := DefaultListingQuery()

	if sortBy := values.Get("sortBy"); slices.Contains(sortKeys, sortBy) {
		q.SortBy = sortBy
	}

	q.Query = values.Get("q")
	q.Categories = facetValues(values, "category")
	q.Types = facetValues(values, "type")
	q.Effects = facetValues(values, "effect")
	q.Compounds = facetValues(values, "compound")

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}

	if style := values.Get("cardStyle"); style != "" {
		q.CardStyle = style
	}

	return q
}

func facetValues(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Values сериализует состояние в параметры URL. Параметры со значениями по
// умолчанию опускаются, чтобы адреса оставались короткими.
func (q ListingQuery) Values() url.Values {
	values := url.Values{}

	if q.SortBy != "" && q.SortBy != DefaultSort {
		values.Set("sortBy", q.SortBy)
	}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	for _, v := range q.Categories {
		values.Add("category", v)
	}
	for _, v := range q.Types {
		values.Add("type", v)
	}
	for _, v := range q.Effects {
		values.Add("effect", v)
	}
	for _, v := range q.Compounds {
		values.Add("compound", v)
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.CardStyle != "" && q.CardStyle != DefaultCardStyle {
		values.Set("cardStyle", q.CardStyle)
	}

	return values
}

// ValuesAfter сериализует состояние относительно предыдущего: при смене
// любого фильтра или сортировки параметр страницы сбрасывается, чтобы
// пагинация начиналась заново.
func (q ListingQuery) ValuesAfter(prev ListingQuery) url.Values {
	values := q.Values()
	if q.filtersDiffer(prev) {
		values.Del("page")
	}
	return values
}

func (q ListingQuery) filtersDiffer(prev ListingQuery) bool {
	return q.SortBy != prev.SortBy ||
		q.Query != prev.Query ||
		!slices.Equal(q.Categories, prev.Categories) ||
		!slices.Equal(q.Types, prev.Types) ||
		!slices.Equal(q.Effects, prev.Effects) ||
		!slices.Equal(q.Compounds, prev.Compounds)
}

// FilterProducts оставляет товары, подходящие под текстовый запрос и фасеты.
// Внутри одного фасета достаточно совпадения по любому значению, между
// фасетами условия объединяются по "и".
func FilterProducts(products []model.Product, q ListingQuery) []model.Product {
	var out []model.Product
	for _, p := range products {
		if q.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Query)) {
			continue
		}
		if !facetMatches(p.Categories, q.Categories) {
			continue
		}
		if !facetMatches(p.Types, q.Types) {
			continue
		}
		if !facetMatches(p.Effects, q.Effects) {
			continue
		}
		if !facetMatches(p.Compounds, q.Compounds) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func facetMatches(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// Paginate возвращает страницу списка товаров и общее число страниц.
// Номер страницы за пределами списка даёт пустую страницу.
func Paginate(products []model.Product, page int) ([]model.Product, int) {
	if page < 1 {
		page = 1
	}

	totalPages := (len(products) + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	if start >= len(products) {
		return nil, totalPages
	}

	end := start + PageSize
	if end > len(products) {
		end = len(products)
	}

	return products[start:end], totalPages
}
