package catalog

import (
	"net/url"
	"testing"

	"github.com/mmeshcher/hempmart-system/internal/model"
)

func TestParseListingQuery_Defaults(t *testing.T) {
	q := ParseListingQuery(url.Values{})

	if q.SortBy != DefaultSort {
		t.Fatalf("SortBy = %q, want %q", q.SortBy, DefaultSort)
	}
	if q.Page != 1 {
		t.Fatalf("Page = %d, want 1", q.Page)
	}
	if q.CardStyle != DefaultCardStyle {
		t.Fatalf("CardStyle = %q, want %q", q.CardStyle, DefaultCardStyle)
	}
	if len(q.Categories) != 0 || len(q.Types) != 0 || len(q.Effects) != 0 || len(q.Compounds) != 0 {
		t.Fatalf("facets must be empty by default: %+v", q)
	}
}

func TestParseListingQuery_MalformedValuesFallBack(t *testing.T) {
	values := url.Values{
		"sortBy": {"cheapest"},
		"page":   {"abc"},
	}

	q := ParseListingQuery(values)

	if q.SortBy != DefaultSort {
		t.Fatalf("unknown sort key must fall back, got %q", q.SortBy)
	}
	if q.Page != 1 {
		t.Fatalf("malformed page must fall back, got %d", q.Page)
	}
}

func TestParseListingQuery_NegativePageFallsBack(t *testing.T) {
	q := ParseListingQuery(url.Values{"page": {"-2"}})
	if q.Page != 1 {
		t.Fatalf("Page = %d, want 1", q.Page)
	}
}

func TestParseListingQuery_SingleAndRepeatedFacets(t *testing.T) {
	values := url.Values{
		"category": {"tinctures", "balms"},
		"effect":   {"calm"},
	}

	q := ParseListingQuery(values)

	if len(q.Categories) != 2 || q.Categories[0] != "tinctures" || q.Categories[1] != "balms" {
		t.Fatalf("Categories = %v", q.Categories)
	}
	if len(q.Effects) != 1 || q.Effects[0] != "calm" {
		t.Fatalf("Effects = %v", q.Effects)
	}
}

func TestRoundTrip_DefaultStateEncodesEmpty(t *testing.T) {
	q := DefaultListingQuery()

	values := q.Values()
	if len(values) != 0 {
		t.Fatalf("default state must encode to no parameters, got %v", values)
	}

	decoded := ParseListingQuery(values)
	if decoded.SortBy != DefaultSort || decoded.Page != 1 || decoded.CardStyle != DefaultCardStyle {
		t.Fatalf("round-trip changed default state: %+v", decoded)
	}
	if len(decoded.Categories) != 0 || len(decoded.Types) != 0 || len(decoded.Effects) != 0 || len(decoded.Compounds) != 0 {
		t.Fatalf("round-trip produced facets: %+v", decoded)
	}
}

func TestRoundTrip_FacetsAndSort(t *testing.T) {
	q := DefaultListingQuery()
	q.SortBy = SortPriceDesc
	q.Categories = []string{"tinctures", "balms"}

	decoded := ParseListingQuery(q.Values())

	if decoded.SortBy != SortPriceDesc {
		t.Fatalf("SortBy = %q, want %q", decoded.SortBy, SortPriceDesc)
	}
	if len(decoded.Categories) != 2 || decoded.Categories[0] != "tinctures" || decoded.Categories[1] != "balms" {
		t.Fatalf("Categories = %v", decoded.Categories)
	}
}

func TestValuesAfter_PageResetOnFilterChange(t *testing.T) {
	prev := DefaultListingQuery()
	prev.Categories = []string{"tinctures"}
	prev.Page = 3

	next := prev
	next.Categories = []string{"balms"}

	values := next.ValuesAfter(prev)
	if values.Get("page") != "" {
		t.Fatalf("page must be dropped when filters change, got %q", values.Get("page"))
	}

	decoded := ParseListingQuery(values)
	if decoded.Page != 1 {
		t.Fatalf("Page = %d, want 1", decoded.Page)
	}
}

func TestValuesAfter_PageKeptWhenFiltersUnchanged(t *testing.T) {
	prev := DefaultListingQuery()
	prev.Categories = []string{"tinctures"}

	next := prev
	next.Page = 2

	values := next.ValuesAfter(prev)
	if values.Get("page") != "2" {
		t.Fatalf("page = %q, want 2", values.Get("page"))
	}
}

func TestFilterProducts(t *testing.T) {
	products := []model.Product{
		{Handle: "calm-tincture", Title: "Calm Tincture", Categories: []string{"tinctures"}, Effects: []string{"calm"}},
		{Handle: "sleep-gummies", Title: "Sleep Gummies", Categories: []string{"gummies"}, Effects: []string{"sleep"}},
		{Handle: "calm-balm", Title: "Calm Balm", Categories: []string{"balms"}, Effects: []string{"calm"}},
	}

	q := DefaultListingQuery()
	q.Effects = []string{"calm"}

	got := FilterProducts(products, q)
	if len(got) != 2 {
		t.Fatalf("filtered count = %d, want 2", len(got))
	}

	q.Categories = []string{"balms"}
	got = FilterProducts(products, q)
	if len(got) != 1 || got[0].Handle != "calm-balm" {
		t.Fatalf("filtered = %v", handles(got))
	}
}

func TestFilterProducts_QueryCaseInsensitive(t *testing.T) {
	products := []model.Product{
		{Handle: "calm-tincture", Title: "Calm Tincture"},
		{Handle: "sleep-gummies", Title: "Sleep Gummies"},
	}

	q := DefaultListingQuery()
	q.Query = "tincture"

	got := FilterProducts(products, q)
	if len(got) != 1 || got[0].Handle != "calm-tincture" {
		t.Fatalf("filtered = %v", handles(got))
	}
}

func TestPaginate(t *testing.T) {
	products := make([]model.Product, 30)

	page, total := Paginate(products, 1)
	if len(page) != PageSize {
		t.Fatalf("first page size = %d, want %d", len(page), PageSize)
	}
	if total != 3 {
		t.Fatalf("total pages = %d, want 3", total)
	}

	page, _ = Paginate(products, 3)
	if len(page) != 6 {
		t.Fatalf("last page size = %d, want 6", len(page))
	}

	page, _ = Paginate(products, 7)
	if len(page) != 0 {
		t.Fatalf("out-of-range page must be empty, got %d items", len(page))
	}
}
