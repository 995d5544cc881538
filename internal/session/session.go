// Package session implements the storefront's order session controller: it
// loads the bakery's reference data, owns one visitor's cart and delivery
// selection, and drives order submission.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/sweethome/internal/cart"
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultReviewPageSize is how many reviews each page fetches.
const DefaultReviewPageSize = 4

// Backend is the subset of the bakery API a session uses.
// *bakeryapi.Client satisfies it.
type Backend interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int) (*domain.Product, error)
	BusinessInfo(ctx context.Context) (*domain.BusinessInfo, error)
	DeliveryOptions(ctx context.Context) ([]domain.DeliveryOption, error)
	BusinessHours(ctx context.Context) (*domain.BusinessHours, error)
	Reviews(ctx context.Context, limit, offset int) (*domain.ReviewPage, error)
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderConfirmation, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	SubmitReview(ctx context.Context, in domain.ReviewInput) (*domain.Review, error)
}

// Session is one visitor's storefront state. Its methods are safe for
// concurrent use; the lock is never held across a backend call.
type Session struct {
	id             uuid.UUID
	backend        Backend
	logger         *slog.Logger
	mailbox        *Mailbox
	notifier       Notifier
	reporter       *telemetry.ErrorReporter
	metrics        *telemetry.StorefrontMetrics
	reviewPageSize int
	requestTimeout time.Duration

	mu          sync.Mutex
	state       LoadState
	loadStarted bool
	loadGen     int
	cart        *cart.Cart
	selection   string
	submit      SubmitState
	outcome     Outcome
	lastOrderID string
	lastError   string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithNotifier adds a notifier alongside the session's mailbox.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = Notifiers{s.notifier, n}
	}
}

// WithReporter sets where UI-boundary errors are reported.
func WithReporter(r *telemetry.ErrorReporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithMetrics sets the business metrics sink.
func WithMetrics(m *telemetry.StorefrontMetrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithReviewPageSize sets how many reviews each page fetches.
func WithReviewPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.reviewPageSize = n
		}
	}
}

// WithRequestTimeout bounds each backend operation. Zero means no bound
// beyond the caller's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.requestTimeout = d
	}
}

// New creates a session in the Loading state with an empty cart and the
// default delivery selection.
func New(id uuid.UUID, backend Backend, opts ...Option) *Session {
	mailbox := NewMailbox(0)
	s := &Session{
		id:             id,
		backend:        backend,
		logger:         slog.Default(),
		mailbox:        mailbox,
		notifier:       mailbox,
		reviewPageSize: DefaultReviewPageSize,
		state:          Loading{},
		cart:           cart.New(),
		selection:      delivery.DefaultOptionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("session_id", id.String()))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Mailbox returns the queue of notices waiting for the page.
func (s *Session) Mailbox() *Mailbox {
	return s.mailbox
}

// EnsureLoaded runs LoadInitialData unless a load has already been started.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	if s.loadStarted {
		s.mu.Unlock()
		return nil
	}
	s.loadStarted = true
	s.mu.Unlock()

	return s.LoadInitialData(ctx)
}

// LoadInitialData fetches products, business info, delivery options, the
// first review page and business hours concurrently. The results are applied
// together only if every fetch succeeds; otherwise the state becomes
// LoadFailed and nothing from this attempt is visible. There is no retry.
func (s *Session) LoadInitialData(ctx context.Context) error {
	const op = "session.load"

	s.mu.Lock()
	s.loadStarted = true
	s.loadGen++
	gen := s.loadGen
	s.state = Loading{}
	pageSize := s.reviewPageSize
	s.mu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		products []domain.Product
		info     *domain.BusinessInfo
		options  []domain.DeliveryOption
		reviews  *domain.ReviewPage
		hours    *domain.BusinessHours
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.backend.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		info, err = s.backend.BusinessInfo(gctx)
		return err
	})
	g.Go(func() (err error) {
		options, err = s.backend.DeliveryOptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = s.backend.Reviews(gctx, pageSize, 0)
		return err
	})
	g.Go(func() (err error) {
		hours, err = s.backend.BusinessHours(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		if gen == s.loadGen {
			s.state = LoadFailed{Err: err}
		}
		s.mu.Unlock()

		s.metrics.InitialLoad(false)
		s.fail(ctx, op, "Something went wrong", "Failed to load bakery information. Please refresh the page.", err)
		return err
	}

	catalog := &Catalog{
		Products:        products,
		BusinessInfo:    *info,
		DeliveryOptions: delivery.Options(options),
		Reviews:         reviews.Reviews,
		ReviewTotal:     reviews.Total,
		BusinessHours:   *hours,
	}

	s.mu.Lock()
	if gen == s.loadGen {
		s.state = Ready{Catalog: catalog}
	}
	s.mu.Unlock()

	s.metrics.InitialLoad(true)
	s.logger.InfoContext(ctx, "catalog loaded",
		"products", len(products),
		"delivery_options", len(options),
		"reviews", len(reviews.Reviews),
	)
	return nil
}

// AddToCart adds quantity units of product to the cart.
func (s *Session) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	s.mu.Lock()
	if s.submit == Submitting {
		s.mu.Unlock()
		return domain.ErrSubmissionInProgress
	}
	err := s.cart.Add(product, quantity)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.metrics.CartItemAdded(product.ID, quantity)
	s.reporter.Breadcrumb("cart", "item added", map[string]interface{}{"product_id": product.ID, "quantity": quantity})
	s.notify(ctx, LevelSuccess, "Added to cart!", fmt.Sprintf("%s has been added to your cart.", product.Name))
	return nil
}

// AddProductByID resolves a product from the loaded catalog, or from the
// backend when the catalog does not have it, and adds it to the cart.
// Products the bakery is not offering are rejected.
func (s *Session) AddProductByID(ctx context.Context, productID, quantity int) error {
	const op = "session.add_product"

	if quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	product, ok := s.catalogProduct(productID)
	if !ok {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		p, err := s.backend.Product(ctx, productID)
		if err != nil {
			return err
		}
		product = *p
	}

	if !product.Availability {
		s.logger.InfoContext(ctx, "rejected unavailable product", "op", op, "product_id", productID)
		return domain.ErrProductUnavailable
	}

	return s.AddToCart(ctx, product, quantity)
}

// UpdateQuantity sets a line's quantity; quantity <= 0 removes the line.
func (s *Session) UpdateQuantity(productID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submit == Submitting {
		return domain.ErrSubmissionInProgress
	}
	removed, err := s.cart.UpdateQuantity(productID, quantity)
	if err != nil {
		return err
	}

	switch {
	case removed:
		s.metrics.CartChanged("remove")
	case quantity > 0:
		s.metrics.CartChanged("update")
	}
	return nil
}

// RemoveFromCart removes a product's line.
func (s *Session) RemoveFromCart(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submit == Submitting {
		return domain.ErrSubmissionInProgress
	}
	if !s.cart.Remove(productID) {
		return domain.NotFound("session.remove_from_cart", "cart line for product", fmt.Sprint(productID))
	}

	s.metrics.CartChanged("remove")
	return nil
}

// SelectDelivery changes the delivery selection. Once the catalog is loaded
// the ID must be one of the offered options.
func (s *Session) SelectDelivery(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ready, ok := s.state.(Ready); ok {
		selected, err := delivery.Select(ready.Catalog.DeliveryOptions, id)
		if err != nil {
			return err
		}
		s.selection = selected
		return nil
	}

	if id == "" {
		return delivery.ErrSelectionRequired
	}
	s.selection = id
	return nil
}

// PlaceOrder validates the customer, submits the current cart and delivery
// selection, and returns the backend's confirmation. On success the cart is
// cleared; on failure it is left exactly as it was. Only one submission may
// be in flight, and the cart cannot change while it is.
func (s *Session) PlaceOrder(ctx context.Context, customer domain.CustomerInfo, instructions string) (*domain.OrderConfirmation, error) {
	const op = "session.place_order"

	if err := validateStruct(op, customer); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.submit == Submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		s.notify(ctx, LevelError, "Your cart is empty", "Add something to your cart before placing an order.")
		return nil, domain.ErrEmptyCart
	}
	// The fee comes from the loaded options, so without them the order
	// would go out with the wrong total.
	ready, ok := s.state.(Ready)
	if !ok {
		s.mu.Unlock()
		s.notify(ctx, LevelError, "Order not placed", "Please wait for the bakery to finish loading, then try again.")
		return nil, domain.ErrCatalogNotLoaded
	}
	options := ready.Catalog.DeliveryOptions
	if !options.Contains(s.selection) {
		selection := s.selection
		s.mu.Unlock()
		s.notify(ctx, LevelError, "Order not placed", "Please choose one of the delivery options.")
		return nil, delivery.ErrUnknownOption(selection)
	}
	req, err := BuildOrderRequest(s.cart, s.selection, options, customer, instructions)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submit = Submitting
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "submitting order",
		"items", len(req.Items),
		"delivery_option", req.DeliveryOption,
		"total", req.Total.StringFixed(2),
	)

	reqCtx, cancel := s.withTimeout(ctx)
	conf, err := s.backend.CreateOrder(reqCtx, req)
	cancel()

	s.mu.Lock()
	s.submit = Idle
	if err != nil {
		s.outcome = Failed
		s.lastError = domain.ErrorMessage(err)
		s.mu.Unlock()

		s.metrics.OrderFailed(domain.ErrorCode(err))
		s.fail(ctx, op, "Order failed", domain.ErrorMessage(err), err)
		return nil, err
	}
	itemCount := s.cart.ItemCount()
	s.cart.Clear()
	s.outcome = Succeeded
	s.lastOrderID = conf.OrderID
	s.lastError = ""
	s.mu.Unlock()

	s.metrics.OrderPlaced(req.DeliveryOption, req.Total, itemCount)
	s.logger.InfoContext(ctx, "order placed", "order_id", conf.OrderID)
	s.notify(ctx, LevelSuccess, "Order placed successfully!", fmt.Sprintf("Your order %s has been received.", conf.OrderID))
	return conf, nil
}

// LoadMoreReviews fetches the next review page, at offset equal to the
// number of reviews already loaded, and appends it to the catalog.
func (s *Session) LoadMoreReviews(ctx context.Context) ([]domain.Review, error) {
	const op = "session.load_more_reviews"

	s.mu.Lock()
	ready, ok := s.state.(Ready)
	gen := s.loadGen
	pageSize := s.reviewPageSize
	s.mu.Unlock()
	if !ok {
		return nil, domain.Conflict(op, "Reviews are not loaded yet")
	}
	offset := len(ready.Catalog.Reviews)

	reqCtx, cancel := s.withTimeout(ctx)
	page, err := s.backend.Reviews(reqCtx, pageSize, offset)
	cancel()
	if err != nil {
		s.fail(ctx, op, "Could not load reviews", domain.ErrorMessage(err), err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.state.(Ready)
	if !ok || gen != s.loadGen || current.Catalog != ready.Catalog {
		// The catalog was reloaded meanwhile; this page belongs to the old one.
		return page.Reviews, nil
	}

	next := *current.Catalog
	next.Reviews = append(append(make([]domain.Review, 0, len(current.Catalog.Reviews)+len(page.Reviews)), current.Catalog.Reviews...), page.Reviews...)
	next.ReviewTotal = page.Total
	s.state = Ready{Catalog: &next}
	return page.Reviews, nil
}

// HasMoreReviews reports whether the backend has reviews not loaded yet.
func (s *Session) HasMoreReviews() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hasMoreReviews(s.state)
}

func hasMoreReviews(state LoadState) bool {
	ready, ok := state.(Ready)
	return ok && len(ready.Catalog.Reviews) < ready.Catalog.ReviewTotal
}

// SubmitReview validates and posts a customer review.
func (s *Session) SubmitReview(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	const op = "session.submit_review"

	if err := validateStruct(op, in); err != nil {
		return nil, err
	}

	reqCtx, cancel := s.withTimeout(ctx)
	review, err := s.backend.SubmitReview(reqCtx, in)
	cancel()
	if err != nil {
		s.fail(ctx, op, "Review not submitted", domain.ErrorMessage(err), err)
		return nil, err
	}

	s.metrics.ReviewSubmitted(review.Rating)
	s.notify(ctx, LevelSuccess, "Thank you!", "Your review has been submitted.")
	return review, nil
}

// OrderStatus fetches an order from the backend.
func (s *Session) OrderStatus(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.Invalid("session.order_status", "Order ID is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.backend.Order(ctx, orderID)
}

// Snapshot is an immutable view of a session.
type Snapshot struct {
	ID             uuid.UUID
	Load           LoadState
	Lines          []cart.Line
	ItemCount      int
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	Total          decimal.Decimal
	Selection      string
	Submit         SubmitState
	LastOutcome    Outcome
	LastOrderID    string
	LastError      string
	HasMoreReviews bool
}

// Catalog returns the loaded catalog, or nil unless the session is Ready.
func (s Snapshot) Catalog() *Catalog {
	if ready, ok := s.Load.(Ready); ok {
		return ready.Catalog
	}
	return nil
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var options delivery.Options
	if ready, ok := s.state.(Ready); ok {
		options = ready.Catalog.DeliveryOptions
	}

	return Snapshot{
		ID:             s.id,
		Load:           s.state,
		Lines:          s.cart.Lines(),
		ItemCount:      s.cart.ItemCount(),
		Subtotal:       s.cart.Subtotal(),
		DeliveryFee:    s.cart.DeliveryFee(s.selection, options),
		Total:          s.cart.Total(s.selection, options),
		Selection:      s.selection,
		Submit:         s.submit,
		LastOutcome:    s.outcome,
		LastOrderID:    s.lastOrderID,
		LastError:      s.lastError,
		HasMoreReviews: hasMoreReviews(s.state),
	}
}

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout > 0 {
		return context.WithTimeout(ctx, s.requestTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Session) notify(ctx context.Context, level, title, message string) {
	s.notifier.Notify(ctx, Notice{Level: level, Title: title, Message: message, At: time.Now()})
}

// fail turns an operation error into a notice, logs it, and reports it
// unless it is the visitor's own input at fault.
func (s *Session) fail(ctx context.Context, op, title, message string, err error) {
	code := domain.ErrorCode(err)
	s.logger.WarnContext(ctx, "operation failed", "op", op, "code", code, "error", err)
	s.notify(ctx, LevelError, title, message)

	if code != domain.EINVALID {
		s.reporter.Capture(ctx, err, map[string]string{
			"op":         op,
			"code":       code,
			"session_id": s.id.String(),
		})
	}
}

func (s *Session) catalogProduct(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ready, ok := s.state.(Ready); ok {
		return ready.Catalog.Product(id)
	}
	return domain.Product{}, false
}
