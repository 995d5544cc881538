package storefront

import (
	"net/http"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/dukerupert/sweethome/internal/handler"
)

type reviewPageResponse struct {
	Reviews        []domain.Review `json:"reviews"`
	HasMoreReviews bool            `json:"has_more_reviews"`
}

type reviewSubmittedResponse struct {
	Review  *domain.Review `json:"review"`
	Message string         `json:"message"`
}

// MoreReviews handles GET /api/reviews/more and returns only the new page.
func (h *Handler) MoreReviews(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := s.LoadMoreReviews(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if page == nil {
		page = []domain.Review{}
	}

	handler.JSON(w, http.StatusOK, reviewPageResponse{
		Reviews:        page,
		HasMoreReviews: s.HasMoreReviews(),
	})
}

// SubmitReview handles POST /api/reviews
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	const op = "storefront.submit_review"

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var in domain.ReviewInput
	if err := handler.DecodeJSON(r, op, &in); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	review, err := s.SubmitReview(r.Context(), in)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, reviewSubmittedResponse{
		Review:  review,
		Message: "Thank you! Your review has been submitted.",
	})
}
