package bakeryapitest

import (
	"time"

	"github.com/dukerupert/sweethome/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedProducts returns the bakery's signature items.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:           1,
			Name:         "Classic Chocolate Chip Cookies",
			Description:  "Soft, chewy cookies made with Belgian chocolate chips and Madagascar vanilla.",
			Price:        decimal.RequireFromString("24.99"),
			Unit:         "dozen",
			Image:        "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=400&h=300&fit=crop",
			Category:     "cookies",
			PrepTime:     "2-3 hours",
			Availability: true,
		},
		{
			ID:           2,
			Name:         "Artisan Sourdough Bread",
			Description:  "Hand-crafted sourdough with a crispy crust and perfectly airy interior.",
			Price:        decimal.RequireFromString("12.99"),
			Unit:         "loaf",
			Image:        "https://images.unsplash.com/photo-1549931319-a545dcf3bc73?w=400&h=300&fit=crop",
			Category:     "bread",
			PrepTime:     "24 hours",
			Availability: true,
		},
		{
			ID:           3,
			Name:         "Classic Apple Pie",
			Description:  "Traditional apple pie with flaky, buttery crust filled with cinnamon-spiced Granny Smith apples.",
			Price:        decimal.RequireFromString("32.99"),
			Unit:         "whole pie",
			Image:        "https://images.unsplash.com/photo-1621743478914-cc8a86d7e9b5?w=400&h=300&fit=crop",
			Category:     "pies",
			PrepTime:     "4-5 hours",
			Availability: true,
		},
	}
}

// SeedDeliveryOptions returns pickup, local and express delivery.
func SeedDeliveryOptions() []domain.DeliveryOption {
	return []domain.DeliveryOption{
		{ID: "pickup", Name: "Store Pickup", Description: "Pick up your order at our bakery", Price: decimal.Zero, Time: "Available daily 7AM - 7PM", Icon: "store"},
		{ID: "local_delivery", Name: "Local Delivery", Description: "Free delivery within 5 miles", Price: decimal.Zero, Time: "Same day delivery available", Icon: "truck"},
		{ID: "express_delivery", Name: "Express Delivery", Description: "Rush delivery within 2 hours", Price: decimal.RequireFromString("8.99"), Time: "Available 9AM - 5PM", Icon: "zap"},
	}
}

// SeedReviews returns the published reviews, newest first.
func SeedReviews() []domain.Review {
	at := func(s string) *time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return &t
	}
	return []domain.Review{
		{ID: 1, Name: "Sarah Johnson", Rating: 5, Comment: "The chocolate chip cookies are absolutely divine!", Verified: true, CreatedAt: at("2024-01-15")},
		{ID: 2, Name: "Michael Chen", Rating: 5, Comment: "Best sourdough bread in town!", Verified: true, CreatedAt: at("2024-01-12")},
		{ID: 3, Name: "Emily Rodriguez", Rating: 5, Comment: "Ordered the apple pie for our family dinner and it was a huge hit!", Verified: true, CreatedAt: at("2024-01-10")},
		{ID: 4, Name: "David Thompson", Rating: 4, Comment: "Great quality baked goods and excellent customer service.", Verified: true, CreatedAt: at("2024-01-08")},
		{ID: 5, Name: "Priya Patel", Rating: 5, Comment: "The express delivery got our pies to us still warm.", Verified: true, CreatedAt: at("2024-01-05")},
		{ID: 6, Name: "Tom Becker", Rating: 3, Comment: "Lovely bread, but it sold out before noon.", Verified: false, CreatedAt: at("2024-01-02")},
	}
}

// SeedBusinessInfo returns the bakery's contact details.
func SeedBusinessInfo() domain.BusinessInfo {
	return domain.BusinessInfo{
		Name:        "Sweet Home Bakery",
		Tagline:     "Freshly baked with love, delivered to your door",
		Description: "Family-owned bakery creating artisanal baked goods using traditional recipes and the finest ingredients.",
		Phone:       "(555) 123-BAKE",
		Email:       "hello@sweethomebakery.com",
		Address:     "123 Baker Street, Sweet Valley, CA 90210",
	}
}

// SeedBusinessHours returns weekly opening hours.
func SeedBusinessHours() domain.BusinessHours {
	return domain.BusinessHours{
		Monday:    "7:00 AM - 7:00 PM",
		Tuesday:   "7:00 AM - 7:00 PM",
		Wednesday: "7:00 AM - 7:00 PM",
		Thursday:  "7:00 AM - 7:00 PM",
		Friday:    "7:00 AM - 8:00 PM",
		Saturday:  "8:00 AM - 8:00 PM",
		Sunday:    "8:00 AM - 6:00 PM",
	}
}
