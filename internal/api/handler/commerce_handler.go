package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pyxolotl/marketplace-api/internal/api/metrics"
	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// CommerceHandler handles HTTP requests for checkout, library, and downloads.
type CommerceHandler struct {
	service ports.CommerceService
}

func NewCommerceHandler(service ports.CommerceService) *CommerceHandler {
	return &CommerceHandler{service: service}
}

type checkoutRequest struct {
	GameIDs       []string `json:"game_ids"       validate:"required,min=1"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=card paypal"`
}

type libraryItemResponse struct {
	Game       gameSummaryResponse `json:"game"`
	PricePaid  float64             `json:"price_paid"`
	Free       bool                `json:"free"`
	AcquiredAt time.Time           `json:"acquired_at"`
}

type downloadGrantResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// Checkout handles POST /api/compras/procesar. The cart lives on the client
// and arrives as a list of game IDs; the server reconciles it against current
// listings and commits all entitlements atomically.
//
// @Summary      Process a checkout
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Cart contents"
// @Success      201   {object}  domain.Purchase
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/compras/procesar [post]
func (h *CommerceHandler) Checkout(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	purchase, err := h.service.Checkout(c.Request().Context(), ports.CheckoutInput{
		BuyerID:       userID,
		GameIDs:       req.GameIDs,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return err
	}

	metrics.PurchasesTotal.Inc()
	metrics.EntitlementsCreatedTotal.WithLabelValues("purchase").Add(float64(len(purchase.Items)))

	return c.JSON(http.StatusCreated, purchase)
}

// ClaimFree handles POST /api/juegos/:id/gratis.
//
// @Summary      Claim a free game
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Game ID"
// @Success      200  {object}  domain.Entitlement
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/juegos/{id}/gratis [post]
func (h *CommerceHandler) ClaimFree(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	ent, err := h.service.ClaimFree(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.EntitlementsCreatedTotal.WithLabelValues("free_claim").Inc()
	return c.JSON(http.StatusOK, ent)
}

// Library handles GET /api/biblioteca.
//
// @Summary      List owned games
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  libraryItemResponse
// @Router       /api/biblioteca [get]
func (h *CommerceHandler) Library(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	items, err := h.service.Library(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]libraryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, libraryItemResponse{
			Game:       toGameSummaryResponse(ports.GameSummary{Game: item.Game}),
			PricePaid:  item.Entitlement.PricePaid,
			Free:       item.Entitlement.Free,
			AcquiredAt: item.Entitlement.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// History handles GET /api/compras/historial.
//
// @Summary      List purchase receipts
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Purchase
// @Router       /api/compras/historial [get]
func (h *CommerceHandler) History(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	purchases, err := h.service.History(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if purchases == nil {
		purchases = []*domain.Purchase{}
	}
	return c.JSON(http.StatusOK, purchases)
}

// Download handles POST /api/biblioteca/descargar/:id and returns a
// time-limited link for an owned game.
//
// @Summary      Authorize a download
// @Tags         commerce
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Game ID"
// @Success      200  {object}  downloadGrantResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/biblioteca/descargar/{id} [post]
func (h *CommerceHandler) Download(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	grant, err := h.service.Download(c.Request().Context(), userID, c.Param("id"), c.RealIP())
	if err != nil {
		return err
	}

	kind := "file"
	if grant.ExpiresIn == 0 {
		kind = "link"
	}
	metrics.DownloadsTotal.WithLabelValues(kind).Inc()

	return c.JSON(http.StatusOK, downloadGrantResponse{URL: grant.URL, ExpiresIn: grant.ExpiresIn})
}
