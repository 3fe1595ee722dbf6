// internal/server/handlers.go
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cookie-storefront/internal/cart"
	"cookie-storefront/internal/catalog"
	"cookie-storefront/internal/checkout"
	"cookie-storefront/internal/concierge"
	"cookie-storefront/internal/models"
	"cookie-storefront/internal/storefront"
)

var errBadRequest = errors.New("bad request")

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// errorStatus maps domain errors to an HTTP status and a stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, concierge.ErrEmptyMood):
		return http.StatusBadRequest, "empty_mood"
	case errors.Is(err, storefront.ErrUnknownProduct):
		return http.StatusNotFound, "unknown_product"
	case errors.Is(err, storefront.ErrBoxIncomplete):
		return http.StatusConflict, "box_incomplete"
	case errors.Is(err, storefront.ErrBoxFull):
		return http.StatusConflict, "box_full"
	case errors.Is(err, storefront.ErrCheckoutInProgress), errors.Is(err, checkout.ErrInProgress):
		return http.StatusConflict, "checkout_in_progress"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict, "empty_cart"
	case errors.Is(err, concierge.ErrBusy):
		return http.StatusTooManyRequests, "concierge_busy"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type productRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

type moodRequest struct {
	Mood string `json:"mood"`
}

// cartUpdate reports whether an update matched a line. Unknown ids leave the
// cart unchanged.
type cartUpdate struct {
	Cart    cart.Snapshot `json:"cart"`
	Matched bool          `json:"matched"`
}

type boxCommit struct {
	BoxID string        `json:"box_id"`
	Cart  cart.Snapshot `json:"cart"`
}

// checkDelta rejects quantity changes no single cart line could absorb.
func checkDelta(delta int) error {
	if delta < -cart.MaxQuantity || delta > cart.MaxQuantity {
		return badRequest("delta must be between %d and %d", -cart.MaxQuantity, cart.MaxQuantity)
	}
	return nil
}

// productView fills in the fallback image for products that have none.
func productView(p models.Product) models.Product {
	p.ImageURL = p.ImageOrFallback()
	return p
}

func productViews(products []models.Product) []models.Product {
	for i := range products {
		products[i] = productView(products[i])
	}
	return products
}

func (s *StorefrontServer) listProducts(c *gin.Context) {
	order, err := catalog.ParseSortOrder(c.Query("sort"))
	if err != nil {
		respondError(c, badRequest("%v", err))
		return
	}
	c.JSON(http.StatusOK, productViews(s.store.Products(order)))
}

func (s *StorefrontServer) getProduct(c *gin.Context) {
	p, err := s.store.Product(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productView(p))
}

func (s *StorefrontServer) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Cart())
}

func (s *StorefrontServer) clearCart(c *gin.Context) {
	snap, err := s.store.ClearCart()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *StorefrontServer) addToCart(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("product_id is required"))
		return
	}
	snap, err := s.store.AddToCart(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *StorefrontServer) updateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid body: %v", err))
		return
	}
	if err := checkDelta(req.Delta); err != nil {
		respondError(c, err)
		return
	}
	snap, matched, err := s.store.UpdateQuantity(c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartUpdate{Cart: snap, Matched: matched})
}

func (s *StorefrontServer) getBox(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Box())
}

func (s *StorefrontServer) pickForBox(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("product_id is required"))
		return
	}
	view, err := s.store.PickForBox(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *StorefrontServer) unpickFromBox(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, badRequest("slot index must be an integer"))
		return
	}
	view, err := s.store.UnpickFromBox(index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *StorefrontServer) commitBox(c *gin.Context) {
	line, snap, err := s.store.CommitBox()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boxCommit{BoxID: line.BoxID, Cart: snap})
}

func (s *StorefrontServer) recommend(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("invalid body: %v", err))
		return
	}
	res, err := s.store.Recommend(c.Request.Context(), req.Mood)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *StorefrontServer) startCheckout(c *gin.Context) {
	st, err := s.store.Checkout()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, st)
}

func (s *StorefrontServer) checkoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.CheckoutStatus())
}

func (s *StorefrontServer) resetCheckout(c *gin.Context) {
	st, err := s.store.ResetCheckout()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *StorefrontServer) listOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, badRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	orders, err := s.store.Orders(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}
	c.JSON(http.StatusOK, orders)
}
