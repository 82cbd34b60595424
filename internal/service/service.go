// Package service реализует бизнес-логику витрины хемпмарт.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/mmeshcher/hempmart-system/internal/cart"
	"github.com/mmeshcher/hempmart-system/internal/catalog"
	"github.com/mmeshcher/hempmart-system/internal/checkout"
	"github.com/mmeshcher/hempmart-system/internal/commerce"
	"github.com/mmeshcher/hempmart-system/internal/model"
	"github.com/mmeshcher/hempmart-system/internal/validation"
)

// ErrCartUnavailable возвращается, когда оформление заказа невозможно:
// корзины нет или она пуста. Обработчик в этом случае уводит пользователя
// на страницу корзины.
var ErrCartUnavailable = errors.New("cart is not available")

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateSignup(ctx context.Context, email, firstName, lastName string) (int64, error)
	GetSignupByEmail(ctx context.Context, email string) (*model.Signup, error)
}

// Commerce описывает контракт клиента коммерс-бэкенда.
type Commerce interface {
	GetCart(ctx context.Context, cartID string) (*model.Cart, error)
	CreateCart(ctx context.Context, currencyCode string) (*model.Cart, error)
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*model.Cart, error)
	UpdateLineItem(ctx context.Context, cartID, itemID string, quantity int) (*model.Cart, error)
	DeleteLineItem(ctx context.Context, cartID, itemID string) (*model.Cart, error)
	ApplyPromotion(ctx context.Context, cartID, code string) (*model.Cart, error)
	RemovePromotion(ctx context.Context, cartID, code string) (*model.Cart, error)
	SetAddress(ctx context.Context, cartID, email string, addr model.Address) (*model.Cart, error)
	AddShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error)
	GetCustomer(ctx context.Context, customerID string) (*model.Customer, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// Service содержит бизнес-логику витрины хемпмарт.
type Service struct {
	repo     Repository
	commerce Commerce
	carts    *cart.Tracker
}

// NewService создаёт новый сервис с указанным репозиторием и клиентом коммерс-бэкенда.
func NewService(repo Repository, commerceClient Commerce) *Service {
	return &Service{
		repo:     repo,
		commerce: commerceClient,
		carts:    cart.NewTracker(),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterSignup проверяет и сохраняет заявку на подписку.
func (s *Service) RegisterSignup(ctx context.Context, email, firstName, lastName string) error {
	if err := validation.ValidateSignup(email, firstName, lastName); err != nil {
		return err
	}

	_, err := s.repo.CreateSignup(ctx, email, firstName, lastName)
	return err
}

// CartPreview возвращает корзину для предпросмотра. Отсутствующая корзина
// нормализуется в nil, чтобы страница могла отрисовать пустое состояние.
func (s *Service) CartPreview(ctx context.Context, cartID string) (*model.Cart, error) {
	if cartID == "" {
		return nil, nil
	}

	c, err := s.commerce.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.carts.State(cartID).SetSnapshot(c)
	return c, nil
}

// CheckoutState описывает состояние оформления заказа для отрисовки.
type CheckoutState struct {
	Cart     *model.Cart
	Step     checkout.Step
	Sections []checkout.Step
	Mutating bool
}

// Checkout вычисляет текущий шаг оформления заказа по состоянию корзины.
// Переопределение шага из URL действует только на отображение. Пустая или
// отсутствующая корзина даёт ErrCartUnavailable.
func (s *Service) Checkout(ctx context.Context, cartID, stepOverride string) (*CheckoutState, error) {
	c, err := s.CartPreview(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartUnavailable
	}

	derived := checkout.StepFromCart(c)
	current := checkout.ParseStep(stepOverride, derived)

	return &CheckoutState{
		Cart:     c,
		Step:     current,
		Sections: checkout.VisibleSections(current),
		Mutating: s.carts.State(cartID).Mutating(),
	}, nil
}

// CartMutating сообщает, выполняется ли сейчас мутация указанной корзины.
func (s *Service) CartMutating(cartID string) bool {
	return s.carts.State(cartID).Mutating()
}

const defaultCurrency = "usd"

// AddItem добавляет вариант товара в корзину. Если корзины ещё нет,
// она создаётся перед добавлением первой позиции.
func (s *Service) AddItem(ctx context.Context, cartID, variantID string, quantity int) (*model.Cart, error) {
	if cartID == "" {
		created, err := s.commerce.CreateCart(ctx, defaultCurrency)
		if err != nil {
			return nil, err
		}
		cartID = created.ID
	}

	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.AddLineItem(ctx, cartID, variantID, quantity)
	})
}

// UpdateItem меняет количество позиции корзины.
func (s *Service) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.UpdateLineItem(ctx, cartID, itemID, quantity)
	})
}

// RemoveItem удаляет позицию из корзины.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.DeleteLineItem(ctx, cartID, itemID)
	})
}

// ApplyDiscount применяет промокод к корзине.
func (s *Service) ApplyDiscount(ctx context.Context, cartID, code string) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.ApplyPromotion(ctx, cartID, code)
	})
}

// RemoveDiscount снимает промокод с корзины.
func (s *Service) RemoveDiscount(ctx context.Context, cartID, code string) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.RemovePromotion(ctx, cartID, code)
	})
}

// SetAddress сохраняет email и адрес доставки в корзине.
func (s *Service) SetAddress(ctx context.Context, cartID, email string, addr model.Address) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.SetAddress(ctx, cartID, email, addr)
	})
}

// SetShippingMethod назначает корзине способ доставки.
func (s *Service) SetShippingMethod(ctx context.Context, cartID, optionID string) (*model.Cart, error) {
	return s.carts.State(cartID).Mutate(ctx, func(ctx context.Context) (*model.Cart, error) {
		return s.commerce.AddShippingMethod(ctx, cartID, optionID)
	})
}

// ProductPage описывает страницу каталога после фильтрации и сортировки.
type ProductPage struct {
	Products   []model.Product
	Page       int
	TotalPages int
	TotalCount int
}

// ListProducts возвращает страницу каталога по указанному состоянию листинга.
func (s *Service) ListProducts(ctx context.Context, q catalog.ListingQuery) (*ProductPage, error) {
	all, err := s.commerce.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.FilterProducts(all, q)
	sorted := catalog.SortProducts(filtered, q.SortBy)
	pageItems, totalPages := catalog.Paginate(sorted, q.Page)

	return &ProductPage{
		Products:   pageItems,
		Page:       q.Page,
		TotalPages: totalPages,
		TotalCount: len(filtered),
	}, nil
}

// CustomerProfile возвращает профиль покупателя. Неизвестный покупатель
// нормализуется в nil и отображается как гость.
func (s *Service) CustomerProfile(ctx context.Context, customerID string) (*model.Customer, error) {
	if customerID == "" {
		return nil, nil
	}

	cust, err := s.commerce.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return cust, nil
}

// StartCartSweeper запускает фоновую чистку устаревших состояний корзин.
func (s *Service) StartCartSweeper(ctx context.Context) {
	s.carts.StartSweeping(ctx, 10*time.Minute, time.Hour)
}
