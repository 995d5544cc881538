package storefront

import (
	"time"

	"github.com/dukerupert/sweethome/internal/cart"
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/session"
	"github.com/shopspring/decimal"
)

// Money is always rendered with two decimals, as a string, so clients
// never see float rounding.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ProductView is a product as shown on the storefront.
type ProductView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	Unit         string `json:"unit"`
	Image        string `json:"image"`
	Category     string `json:"category"`
	PrepTime     string `json:"prep_time"`
	Availability bool   `json:"availability"`
}

func newProductView(p domain.Product) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        money(p.Price),
		Unit:         p.Unit,
		Image:        p.Image,
		Category:     p.Category,
		PrepTime:     p.PrepTime,
		Availability: p.Availability,
	}
}

// DeliveryOptionView is a delivery option with its display label.
type DeliveryOptionView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Free        bool   `json:"free"`
	Label       string `json:"label"`
	Time        string `json:"time"`
	Icon        string `json:"icon"`
	Selected    bool   `json:"selected"`
}

func newDeliveryOptionViews(options delivery.Options, selection string) []DeliveryOptionView {
	views := make([]DeliveryOptionView, 0, len(options))
	for _, o := range options {
		views = append(views, DeliveryOptionView{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			Price:       money(o.Price),
			Free:        o.IsFree(),
			Label:       delivery.Label(o),
			Time:        o.Time,
			Icon:        o.Icon,
			Selected:    o.ID == selection,
		})
	}
	return views
}

// CartLineView is one cart line.
type CartLineView struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartView is the cart with its totals under the current delivery selection.
type CartView struct {
	Items          []CartLineView `json:"items"`
	ItemCount      int            `json:"item_count"`
	Subtotal       string         `json:"subtotal"`
	DeliveryOption string         `json:"delivery_option"`
	DeliveryFee    string         `json:"delivery_fee"`
	Total          string         `json:"total"`
}

func newCartView(snap session.Snapshot) CartView {
	return CartView{
		Items:          newCartLineViews(snap.Lines),
		ItemCount:      snap.ItemCount,
		Subtotal:       money(snap.Subtotal),
		DeliveryOption: snap.Selection,
		DeliveryFee:    money(snap.DeliveryFee),
		Total:          money(snap.Total),
	}
}

func newCartLineViews(lines []cart.Line) []CartLineView {
	views := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, CartLineView{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Unit:      l.Product.Unit,
			Image:     l.Product.Image,
			Price:     money(l.Product.Price),
			Quantity:  l.Quantity,
			LineTotal: money(l.Total()),
		})
	}
	return views
}

// SubmissionView reports the order submission state.
type SubmissionView struct {
	State       string `json:"state"`
	LastOutcome string `json:"last_outcome"`
	LastOrderID string `json:"last_order_id,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

// StorefrontView is everything a storefront page needs in one response.
// Catalog fields are empty until State is "ready".
type StorefrontView struct {
	State           string                `json:"state"`
	Error           string                `json:"error,omitempty"`
	BusinessInfo    *domain.BusinessInfo  `json:"business_info,omitempty"`
	BusinessHours   *domain.BusinessHours `json:"business_hours,omitempty"`
	Products        []ProductView         `json:"products"`
	DeliveryOptions []DeliveryOptionView  `json:"delivery_options"`
	Reviews         []domain.Review       `json:"reviews"`
	ReviewTotal     int                   `json:"review_total"`
	HasMoreReviews  bool                  `json:"has_more_reviews"`
	Cart            CartView              `json:"cart"`
	Submission      SubmissionView        `json:"submission"`
}

func newStorefrontView(snap session.Snapshot) StorefrontView {
	view := StorefrontView{
		State:           snap.Load.Name(),
		Products:        []ProductView{},
		DeliveryOptions: []DeliveryOptionView{},
		Reviews:         []domain.Review{},
		HasMoreReviews:  snap.HasMoreReviews,
		Cart:            newCartView(snap),
		Submission: SubmissionView{
			State:       snap.Submit.String(),
			LastOutcome: snap.LastOutcome.String(),
			LastOrderID: snap.LastOrderID,
			LastError:   snap.LastError,
		},
	}

	if failed, ok := snap.Load.(session.LoadFailed); ok {
		view.Error = domain.ErrorMessage(failed.Err)
	}

	if c := snap.Catalog(); c != nil {
		info, hours := c.BusinessInfo, c.BusinessHours
		view.BusinessInfo = &info
		view.BusinessHours = &hours
		for _, p := range c.Products {
			view.Products = append(view.Products, newProductView(p))
		}
		view.DeliveryOptions = newDeliveryOptionViews(c.DeliveryOptions, snap.Selection)
		view.Reviews = append(view.Reviews, c.Reviews...)
		view.ReviewTotal = c.ReviewTotal
	}
	return view
}

// OrderItemView is one line of a recorded order.
type OrderItemView struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// OrderView is an order with its customer-facing status label.
type OrderView struct {
	OrderID             string              `json:"order_id"`
	Status              string              `json:"status"`
	StatusLabel         string              `json:"status_label"`
	CustomerInfo        domain.CustomerInfo `json:"customer_info"`
	Items               []OrderItemView     `json:"items"`
	DeliveryOption      string              `json:"delivery_option"`
	DeliveryFee         string              `json:"delivery_fee"`
	Subtotal            string              `json:"subtotal"`
	Total               string              `json:"total"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	CreatedAt           *time.Time          `json:"created_at,omitempty"`
}

func newOrderView(o *domain.Order) *OrderView {
	if o == nil {
		return nil
	}
	items := make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemView{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       money(it.Price),
			Subtotal:    money(it.Subtotal),
		})
	}
	return &OrderView{
		OrderID:             o.OrderID,
		Status:              o.Status,
		StatusLabel:         domain.OrderStatusLabel(o.Status),
		CustomerInfo:        o.CustomerInfo,
		Items:               items,
		DeliveryOption:      o.DeliveryOption,
		DeliveryFee:         money(o.DeliveryFee),
		Subtotal:            money(o.Subtotal),
		Total:               money(o.Total),
		SpecialInstructions: o.SpecialInstructions,
		CreatedAt:           o.CreatedAt,
	}
}

// ConfirmationView answers a successful checkout.
type ConfirmationView struct {
	OrderID string     `json:"order_id"`
	Message string     `json:"message"`
	Order   *OrderView `json:"order,omitempty"`
	Cart    CartView   `json:"cart"`
}
