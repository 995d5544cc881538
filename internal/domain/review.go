package domain

import "time"

// Review is a published customer review.
type Review struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	Verified  bool       `json:"verified"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ReviewPage is one page of reviews plus the total number available.
type ReviewPage struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// ReviewInput is a review submitted by a customer.
type ReviewInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}
