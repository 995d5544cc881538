package session

import (
	"github.com/dukerupert/sweethome/internal/delivery"
	"github.com/dukerupert/sweethome/internal/domain"
)

// Catalog is the reference data fetched when a session starts. It is
// replaced as a whole and never mutated in place, except for reviews
// appended by LoadMoreReviews, which copy the slice.
type Catalog struct {
	Products        []domain.Product
	BusinessInfo    domain.BusinessInfo
	DeliveryOptions delivery.Options
	Reviews         []domain.Review
	ReviewTotal     int
	BusinessHours   domain.BusinessHours
}

// Product looks up a catalog product by ID.
func (c *Catalog) Product(id int) (domain.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// LoadState is the session's reference-data state: one of Loading, Ready or LoadFailed.
type LoadState interface {
	loadState()
	// Name is the state's wire name.
	Name() string
}

// Loading means the catalog has not been fetched yet, or a fetch is running.
type Loading struct{}

// Ready carries a fully loaded catalog.
type Ready struct {
	Catalog *Catalog
}

// LoadFailed carries the error of the last load attempt. Nothing from that
// attempt was applied.
type LoadFailed struct {
	Err error
}

func (Loading) loadState()    {}
func (Ready) loadState()      {}
func (LoadFailed) loadState() {}

func (Loading) Name() string    { return "loading" }
func (Ready) Name() string      { return "ready" }
func (LoadFailed) Name() string { return "error" }

// SubmitState is the order submission state.
type SubmitState int

const (
	Idle SubmitState = iota
	Submitting
)

func (s SubmitState) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Outcome is the result of the most recent order submission.
type Outcome int

const (
	NoOutcome Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "none"
	}
}
