// internal/storefront/storefront.go
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"cookie-storefront/internal/cart"
	"cookie-storefront/internal/catalog"
	"cookie-storefront/internal/checkout"
	"cookie-storefront/internal/concierge"
	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/models"
)

var (
	ErrUnknownProduct     = errors.New("unknown product")
	ErrBoxIncomplete      = errors.New("box is not complete")
	ErrBoxFull            = errors.New("box is full")
	ErrCheckoutInProgress = errors.New("checkout in progress")
)

// OrderStore archives completed orders.
type OrderStore interface {
	SaveOrder(ctx context.Context, order *models.Order) error
	GetOrders(ctx context.Context, limit int) ([]*models.Order, error)
}

// Storefront is one shopping session: the catalog, the cart, the box being
// built, the concierge and the checkout. Cart and box operations are
// serialised by a single mutex; the concierge runs outside it.
type Storefront struct {
	catalog   *catalog.Catalog
	concierge *concierge.Concierge
	checkout  *checkout.Flow
	orders    OrderStore
	log       *logging.Logger
	now       func() time.Time

	mu       sync.Mutex
	ledger   *cart.Ledger
	composer *cart.Composer
}

type Options struct {
	Catalog        *catalog.Catalog
	Gateway        concierge.Gateway
	GatewayTimeout time.Duration
	CheckoutDelay  time.Duration
	Orders         OrderStore
	Logger         *logging.Logger
}

func New(opts Options) *Storefront {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	ledger := cart.NewLedger()
	return &Storefront{
		catalog:   cat,
		concierge: concierge.New(opts.Gateway, cat, opts.GatewayTimeout, log.With("component", "concierge")),
		checkout:  checkout.NewFlow(opts.CheckoutDelay, log.With("component", "checkout")),
		orders:    opts.Orders,
		log:       log,
		now:       time.Now,
		ledger:    ledger,
		composer:  cart.NewComposer(ledger),
	}
}

func (s *Storefront) Products(order catalog.SortOrder) []models.Product {
	return s.catalog.Sorted(order)
}

func (s *Storefront) Product(id string) (models.Product, error) {
	p, ok := s.catalog.Lookup(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return p, nil
}

// mutable is called with s.mu held.
func (s *Storefront) mutable() error {
	if s.checkout.State() == checkout.StateProcessing {
		return ErrCheckoutInProgress
	}
	return nil
}

func (s *Storefront) AddToCart(productID string) (cart.Snapshot, error) {
	product, err := s.Product(productID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.Snapshot{}, err
	}

	line := s.ledger.AddSimple(product)
	s.log.Debug("Added to cart", "product_id", product.ID, "quantity", line.Qty)
	return s.ledger.Snapshot(), nil
}

// UpdateQuantity applies delta to a cart line. An unknown id leaves the cart
// unchanged; matched reports whether a line was found.
func (s *Storefront) UpdateQuantity(itemID string, delta int) (snap cart.Snapshot, matched bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.Snapshot{}, false, err
	}

	matched = s.ledger.UpdateQuantity(itemID, delta)
	return s.ledger.Snapshot(), matched, nil
}

func (s *Storefront) ClearCart() (cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.Snapshot{}, err
	}

	s.ledger.Clear()
	return s.ledger.Snapshot(), nil
}

func (s *Storefront) Cart() cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// PickForBox puts a product in the next empty box slot. A full box is
// reported with ErrBoxFull and left unchanged.
func (s *Storefront) PickForBox(productID string) (cart.BoxView, error) {
	product, err := s.Product(productID)
	if err != nil {
		return cart.BoxView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.BoxView{}, err
	}

	if _, ok := s.composer.Pick(product); !ok {
		return s.composer.View(), ErrBoxFull
	}
	return s.composer.View(), nil
}

// UnpickFromBox empties a slot. Empty or out-of-range slots are a no-op.
func (s *Storefront) UnpickFromBox(index int) (cart.BoxView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.BoxView{}, err
	}

	s.composer.Unpick(index)
	return s.composer.View(), nil
}

func (s *Storefront) Box() cart.BoxView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.View()
}

// CommitBox moves the finished box into the cart. The composer is left
// untouched when the box is incomplete.
func (s *Storefront) CommitBox() (cart.BoxLine, cart.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return cart.BoxLine{}, cart.Snapshot{}, err
	}

	line, ok := s.composer.Commit()
	if !ok {
		return cart.BoxLine{}, s.ledger.Snapshot(), ErrBoxIncomplete
	}
	s.log.Info("Box added to cart", "box_id", line.BoxID)
	return line, s.ledger.Snapshot(), nil
}

// Recommend asks the concierge for a cookie. It never touches the cart.
func (s *Storefront) Recommend(ctx context.Context, mood string) (concierge.Result, error) {
	return s.concierge.Recommend(ctx, mood)
}

// Checkout starts the simulated payment for the current cart.
func (s *Storefront) Checkout() (checkout.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkout.Start(s.ledger.TotalItemCount(), s.completeCheckout); err != nil {
		return s.checkout.Status(), err
	}
	return s.checkout.Status(), nil
}

// completeCheckout runs on the checkout timer goroutine.
func (s *Storefront) completeCheckout() (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.Snapshot()
	order := &models.Order{
		ID:         "order-" + uuid.NewString(),
		PlacedAt:   s.now(),
		TotalItems: snap.TotalItems,
		Total:      snap.Total,
		Lines:      snap.Lines,
	}

	if s.orders != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.orders.SaveOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
	}

	s.ledger.Clear()
	return order, nil
}

func (s *Storefront) CheckoutStatus() checkout.Status {
	return s.checkout.Status()
}

func (s *Storefront) ResetCheckout() (checkout.Status, error) {
	err := s.checkout.Reset()
	return s.checkout.Status(), err
}

// Orders lists archived receipts, newest first.
func (s *Storefront) Orders(ctx context.Context, limit int) ([]*models.Order, error) {
	if s.orders == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.orders.GetOrders(ctx, limit)
}

// Close stops a pending checkout. It must not be called with s.mu held.
func (s *Storefront) Close() {
	s.checkout.Stop()
}
