package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/blunfr84/Webly/cart-service/pkg/cart"
	"github.com/blunfr84/Webly/cart-service/pkg/pricing"
	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrItemNotInCart = errors.New("service is not in the cart")
	ErrUnknownOption = errors.New("option not offered by this service")
)

// Catalog is satisfied by catalog.Loader.
type Catalog interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
}

// CartService resolves catalog ids for the cart store and reports lines the
// store silently ignores.
type CartService struct {
	store   *cart.Store
	catalog Catalog
	logger  *zap.Logger
}

func NewCartService(store *cart.Store, c Catalog, logger *zap.Logger) *CartService {
	return &CartService{
		store:   store,
		catalog: c,
		logger:  logger,
	}
}

// Line is one cart row with its amounts.
type Line struct {
	Item      cart.CartItem
	UnitTotal decimal.Decimal
	LineTotal decimal.Decimal
}

type Summary struct {
	Lines []Line
	Count int
	Total decimal.Decimal
}

func (s *CartService) Services(ctx context.Context) ([]catalog.Service, error) {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.All(), nil
}

// AddItem looks the service up in the current catalog and adds it. Options
// must be offered by the service; quantities below 1 become 1.
func (s *CartService) AddItem(ctx context.Context, serviceID int64, quantity int, options cart.SelectedOptions) (cart.CartItem, error) {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error("catalog load failed", zap.Error(err))
		return cart.CartItem{}, err
	}
	svc, err := snap.Find(serviceID)
	if err != nil {
		return cart.CartItem{}, err
	}
	if err := checkOptions(svc, options); err != nil {
		return cart.CartItem{}, err
	}
	if quantity < 1 {
		quantity = 1
	}

	s.store.AddItem(ctx, svc, quantity, options)
	item, _ := s.store.Item(serviceID)
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, serviceID int64) error {
	if _, ok := s.store.Item(serviceID); !ok {
		return fmt.Errorf("%w: id %d", ErrItemNotInCart, serviceID)
	}
	s.store.RemoveItem(ctx, serviceID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, serviceID int64, quantity int) (cart.CartItem, error) {
	if _, ok := s.store.Item(serviceID); !ok {
		return cart.CartItem{}, fmt.Errorf("%w: id %d", ErrItemNotInCart, serviceID)
	}
	s.store.UpdateQuantity(ctx, serviceID, quantity)
	item, _ := s.store.Item(serviceID)
	return item, nil
}

// SetOptions replaces the selection of a line. Names are checked against the
// service copy held by the line, not the live catalog.
func (s *CartService) SetOptions(ctx context.Context, serviceID int64, options cart.SelectedOptions) (cart.CartItem, error) {
	item, ok := s.store.Item(serviceID)
	if !ok {
		return cart.CartItem{}, fmt.Errorf("%w: id %d", ErrItemNotInCart, serviceID)
	}
	if err := checkOptions(item.Service, options); err != nil {
		return cart.CartItem{}, err
	}
	s.store.SetSelectedOptions(ctx, serviceID, options)
	item, _ = s.store.Item(serviceID)
	return item, nil
}

func (s *CartService) Clear(ctx context.Context) {
	s.store.Clear(ctx)
}

func (s *CartService) Summary() Summary {
	items := s.store.Items()
	sum := Summary{
		Lines: make([]Line, 0, len(items)),
		Count: s.store.ItemCount(),
		Total: pricing.CartTotal(items),
	}
	for _, it := range items {
		sum.Lines = append(sum.Lines, Line{
			Item:      it,
			UnitTotal: pricing.UnitTotal(it),
			LineTotal: pricing.LineTotal(it),
		})
	}
	return sum
}

func checkOptions(svc catalog.Service, options cart.SelectedOptions) error {
	for _, name := range options.Names() {
		if _, ok := svc.Option(name); !ok {
			return fmt.Errorf("%w: %q on %s", ErrUnknownOption, name, svc.Title)
		}
	}
	return nil
}
