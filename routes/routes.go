// Package routes provides shared API route constants used by the
// admin clients to prevent path mismatches.
package routes

// API route paths. Shared between the SDK surface and test fixtures so
// endpoint changes are compile-time visible.
const (
	// Login exchanges admin credentials for an access/refresh token pair.
	Login = "/login"

	// RefreshToken exchanges a refresh token for a new access token.
	RefreshToken = "/refresh-token" // #nosec G101 -- route path, not a credential

	// Products is the product catalog collection.
	Products = "/products"

	// Orders is the order collection.
	Orders = "/orders"

	// Returns is the return-request collection.
	Returns = "/returns"

	// Coupons is the coupon collection.
	Coupons = "/coupons"

	// Campaigns is the marketing campaign collection.
	Campaigns = "/campaigns"

	// Reviews is the product review moderation collection.
	Reviews = "/reviews"

	// Tickets is the support ticket collection.
	Tickets = "/tickets"

	// ShopSettings is the shop configuration document.
	ShopSettings = "/shop/settings"
)
