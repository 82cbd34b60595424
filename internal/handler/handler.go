// Package handler содержит HTTP-обработчики API витрины хемпмарт.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/hempmart-system/internal/catalog"
	"github.com/mmeshcher/hempmart-system/internal/middleware"
	"github.com/mmeshcher/hempmart-system/internal/model"
	"github.com/mmeshcher/hempmart-system/internal/money"
	"github.com/mmeshcher/hempmart-system/internal/ratelimit"
	"github.com/mmeshcher/hempmart-system/internal/repository"
	"github.com/mmeshcher/hempmart-system/internal/service"
	"github.com/mmeshcher/hempmart-system/internal/validation"
)

const (
	cartCookieName     = "cart_id"
	customerCookieName = "customer_id"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterSignup(ctx context.Context, email, firstName, lastName string) error
	CartPreview(ctx context.Context, cartID string) (*model.Cart, error)
	Checkout(ctx context.Context, cartID, stepOverride string) (*service.CheckoutState, error)
	AddItem(ctx context.Context, cartID, variantID string, quantity int) (*model.Cart, error)
	UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*model.Cart, error)
	ApplyDiscount(ctx context.Context, cartID, code string) (*model.Cart, error)
	RemoveDiscount(ctx context.Context, cartID, code string) (*model.Cart, error)
	SetAddress(ctx context.Context, cartID, email string, addr model.Address) (*model.Cart, error)
	SetShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error)
	ListProducts(ctx context.Context, q catalog.ListingQuery) (*service.ProductPage, error)
	CustomerProfile(ctx context.Context, customerID string) (*model.Customer, error)
}

// Handler реализует HTTP-обработчики API витрины хемпмарт.
type Handler struct {
	service     Service
	logger      *zap.Logger
	limiter     *ratelimit.Limiter
	ageGate     *middleware.AgeGate
	originCheck func(http.Handler) http.Handler
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, limiter *ratelimit.Limiter, ageGate *middleware.AgeGate, originCheck func(http.Handler) http.Handler) *Handler {
	return &Handler{
		service:     s,
		logger:      logger,
		limiter:     limiter,
		ageGate:     ageGate,
		originCheck: originCheck,
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

type signupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type signupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeSignup(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(signupResponse{Success: success, Message: message})
}

func isValidationError(err error) bool {
	return errors.Is(err, validation.ErrEmailRequired) ||
		errors.Is(err, validation.ErrEmailInvalid) ||
		errors.Is(err, validation.ErrNameTooLong)
}

// Signup обрабатывает заявку на почтовую подписку с ограничением частоты по клиенту.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(ratelimit.ClientID(r)) {
		w.Header().Set("Retry-After", strconv.Itoa(h.limiter.RetryAfter()))
		writeSignup(w, http.StatusTooManyRequests, false, "too many requests, try again later")
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSignup(w, http.StatusBadRequest, false, "invalid request body")
		return
	}

	err := h.service.RegisterSignup(r.Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		if isValidationError(err) {
			writeSignup(w, http.StatusBadRequest, false, err.Error())
			return
		}
		if errors.Is(err, repository.ErrSignupExists) {
			writeSignup(w, http.StatusBadRequest, false, "this email is already signed up")
			return
		}
		h.logger.Error("register signup error", zap.Error(err))
		writeSignup(w, http.StatusInternalServerError, false, "something went wrong, try again later")
		return
	}

	writeSignup(w, http.StatusOK, true, "thanks for signing up")
}

type ageGateRequest struct {
	Confirmed bool `json:"confirmed"`
}

// VerifyAge подтверждает возраст посетителя и устанавливает подписанный cookie.
func (h *Handler) VerifyAge(w http.ResponseWriter, r *http.Request) {
	var req ageGateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirmed {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.ageGate.SetVerifiedCookie(w)
	w.WriteHeader(http.StatusOK)
}

type previewItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	ProductHandle string `json:"product_handle"`
	LineTotal     int64  `json:"line_total"`
}

type previewCart struct {
	ID              string        `json:"id"`
	Subtotal        int64         `json:"subtotal"`
	SubtotalDisplay string        `json:"subtotal_display"`
	CurrencyCode    string        `json:"currency_code"`
	Items           []previewItem `json:"items"`
}

type previewResponse struct {
	Cart *previewCart `json:"cart"`
}

// CartPreview возвращает краткое содержимое корзины для виджета предпросмотра.
func (h *Handler) CartPreview(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.CartPreview(r.Context(), cookieValue(r, cartCookieName))
	if err != nil {
		h.logger.Error("cart preview error", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(previewResponse{Cart: nil})
		return
	}

	resp := previewResponse{}
	if cart != nil {
		pc := &previewCart{
			ID:              cart.ID,
			Subtotal:        cart.Subtotal,
			SubtotalDisplay: money.FormatAmount(cart.Subtotal, cart.CurrencyCode),
			CurrencyCode:    cart.CurrencyCode,
			Items:           make([]previewItem, 0, len(cart.Items)),
		}
		for _, item := range cart.Items {
			pc.Items = append(pc.Items, previewItem{
				ID:            item.ID,
				Title:         item.Title,
				Quantity:      item.Quantity,
				Thumbnail:     item.Thumbnail,
				ProductHandle: item.ProductHandle,
				LineTotal:     item.LineTotal,
			})
		}
		resp.Cart = pc
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

type checkoutResponse struct {
	Step     string      `json:"step"`
	Sections []string    `json:"sections"`
	Mutating bool        `json:"mutating"`
	Cart     *model.Cart `json:"cart"`
}

// Checkout отдаёт состояние оформления заказа: текущий шаг и видимые секции.
// Без корзины оформление не отрисовывается — пользователь уводится на
// страницу корзины.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Redirect(w, r, "/cart", http.StatusTemporaryRedirect)
		return
	}

	state, err := h.service.Checkout(r.Context(), cartID, r.URL.Query().Get("step"))
	if err != nil {
		if errors.Is(err, service.ErrCartUnavailable) {
			http.Redirect(w, r, "/cart", http.StatusTemporaryRedirect)
			return
		}
		h.logger.Error("checkout state error", zap.Error(err), zap.String("cartID", cartID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := checkoutResponse{
		Step:     string(state.Step),
		Mutating: state.Mutating,
		Cart:     state.Cart,
	}
	for _, s := range state.Sections {
		resp.Sections = append(resp.Sections, string(s))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

type cartResponse struct {
	Message string      `json:"message,omitempty"`
	Cart    *model.Cart `json:"cart"`
}

// writeCartMutation отдаёт результат мутации корзины. При ошибке возвращается
// последний подтверждённый снимок и сообщение для уведомления.
func (h *Handler) writeCartMutation(w http.ResponseWriter, cart *model.Cart, err error) {
	w.Header().Set("Content-Type", "application/json")

	if err != nil {
		h.logger.Error("cart mutation error", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(cartResponse{
			Message: "could not update your cart, try again",
			Cart:    cart,
		})
		return
	}

	_ = json.NewEncoder(w).Encode(cartResponse{Cart: cart})
}

type addItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem добавляет вариант товара в корзину. При первом добавлении
// корзина создаётся и её идентификатор сохраняется в cookie.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VariantID == "" || req.Quantity <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.AddItem(r.Context(), cartID, req.VariantID, req.Quantity)
	if err == nil && cartID == "" && cart != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookieName,
			Value:    cart.ID,
			Path:     "/",
			HttpOnly: true,
		})
	}
	h.writeCartMutation(w, cart, err)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem меняет количество позиции корзины.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), cartID, chi.URLParam(r, "itemID"), req.Quantity)
	h.writeCartMutation(w, cart, err)
}

// RemoveItem удаляет позицию из корзины.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), cartID, chi.URLParam(r, "itemID"))
	h.writeCartMutation(w, cart, err)
}

type discountRequest struct {
	Code string `json:"code"`
}

// ApplyDiscount применяет промокод к корзине.
func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.ApplyDiscount(r.Context(), cartID, req.Code)
	h.writeCartMutation(w, cart, err)
}

// RemoveDiscount снимает промокод с корзины.
func (h *Handler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.RemoveDiscount(r.Context(), cartID, chi.URLParam(r, "code"))
	h.writeCartMutation(w, cart, err)
}

type setAddressRequest struct {
	Email           string        `json:"email"`
	ShippingAddress model.Address `json:"shipping_address"`
}

// SetAddress сохраняет email и адрес доставки покупателя.
func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req setAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.ShippingAddress.Address1 == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.SetAddress(r.Context(), cartID, req.Email, req.ShippingAddress)
	h.writeCartMutation(w, cart, err)
}

type shippingMethodRequest struct {
	OptionID string `json:"option_id"`
}

// SetShippingMethod назначает корзине способ доставки.
func (h *Handler) SetShippingMethod(w http.ResponseWriter, r *http.Request) {
	cartID := cookieValue(r, cartCookieName)
	if cartID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req shippingMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.SetShippingMethod(r.Context(), cartID, req.OptionID)
	h.writeCartMutation(w, cart, err)
}

type productCard struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	MinPrice        *int64 `json:"min_price,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
}

type listingResponse struct {
	Products   []productCard `json:"products"`
	Count      int           `json:"count"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	CardStyle  string        `json:"card_style"`
}

// ListProducts отдаёт страницу каталога по параметрам фильтрации и сортировки.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := catalog.ParseListingQuery(r.URL.Query())

	page, err := h.service.ListProducts(r.Context(), q)
	if err != nil {
		h.logger.Error("list products error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := listingResponse{
		Products:   make([]productCard, 0, len(page.Products)),
		Count:      page.TotalCount,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		CardStyle:  q.CardStyle,
	}
	for _, p := range page.Products {
		resp.Products = append(resp.Products, toProductCard(p))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// toProductCard выбирает самый дешёвый вариант товара для карточки каталога.
func toProductCard(p model.Product) productCard {
	card := productCard{
		ID:        p.ID,
		Handle:    p.Handle,
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
	}

	for _, v := range p.Variants {
		if v.CalculatedPrice == nil {
			continue
		}
		if card.MinPrice == nil || *v.CalculatedPrice < *card.MinPrice {
			price := *v.CalculatedPrice
			card.MinPrice = &price
			card.DiscountPercent = 0
			if v.OriginalPrice != nil {
				card.DiscountPercent = money.PercentageDiff(*v.OriginalPrice, price)
			}
		}
	}

	return card
}

type customerResponse struct {
	Customer *model.Customer `json:"customer"`
}

// Customer возвращает профиль текущего покупателя с бонусными баллами.
// Неизвестный покупатель и сбой бэкенда отображаются как гость.
func (h *Handler) Customer(w http.ResponseWriter, r *http.Request) {
	cust, err := h.service.CustomerProfile(r.Context(), cookieValue(r, customerCookieName))
	if err != nil {
		h.logger.Error("customer profile error", zap.Error(err))
		cust = nil
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(customerResponse{Customer: cust}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}
