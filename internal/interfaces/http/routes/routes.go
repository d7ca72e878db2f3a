// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/domain/checkout"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/identity"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
	"github.com/your-org/bookstore-commerce/internal/domain/wishlist"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/middleware"
)

// Deps bundles the wired services the HTTP layer exposes
type Deps struct {
	Verifier *identity.TokenVerifier
	Bus      *identity.Bus
	Catalog  *catalog.Service
	Carts    *cart.Store
	Wishlist *wishlist.SyncEngine
	Coupons  *coupon.Service
	Orders   *order.Transaction
	Checkout *checkout.Pipeline
}

// SetupRoutes registers every API route on the given group
func SetupRoutes(rg *gin.RouterGroup, deps *Deps) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Catalog)
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlist, deps.Catalog)
	sessionHandler := handlers.NewSessionHandler(deps.Bus)
	couponHandler := handlers.NewCouponHandler(deps.Coupons, deps.Carts)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
	orderHandler := handlers.NewOrderHandler(deps.Orders)

	books := rg.Group("/books")
	{
		books.GET("", catalogHandler.ListBooks)
		books.GET("/:id", catalogHandler.GetBook)
	}

	// Cart and wishlist are device-scoped and usable without an account.
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuth(deps.Verifier))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.SetQuantity)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
		cartGroup.PUT("/selection", cartHandler.SetSelection)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	wishlistGroup := rg.Group("/wishlist")
	wishlistGroup.Use(middleware.OptionalAuth(deps.Verifier))
	{
		wishlistGroup.GET("", wishlistHandler.GetWishlist)
		wishlistGroup.POST("/toggle", wishlistHandler.Toggle)
	}

	session := rg.Group("/session")
	{
		session.POST("/sign-in", middleware.Auth(deps.Verifier), sessionHandler.SignIn)
		session.POST("/sign-out", middleware.OptionalAuth(deps.Verifier), sessionHandler.SignOut)
	}

	coupons := rg.Group("/coupons")
	{
		coupons.POST("/preview", couponHandler.Preview)
	}

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.Auth(deps.Verifier))
	{
		checkoutGroup.POST("", checkoutHandler.Checkout)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.Auth(deps.Verifier))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(deps.Verifier), middleware.Admin())
	{
		admin.GET("/coupons", couponHandler.List)
		admin.POST("/coupons", couponHandler.Create)
		admin.PUT("/coupons/:code", couponHandler.Update)
		admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	}
}
