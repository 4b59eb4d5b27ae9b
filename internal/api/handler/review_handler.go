package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyxolotl/marketplace-api/internal/api/metrics"
	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// ReviewHandler handles HTTP requests for game reviews.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type postReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text"   validate:"required,max=4000"`
}

type listReviewsResponse struct {
	Reviews []*domain.Review `json:"reviews"`
	Rating  ratingResponse   `json:"rating"`
}

// Post handles POST /api/juegos/:id/resenas. Requires an entitlement for the
// game; one review per user per game.
//
// @Summary      Post a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Game ID"
// @Param        body  body      postReviewRequest  true  "Rating and text"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/juegos/{id}/resenas [post]
func (h *ReviewHandler) Post(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req postReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.service.Post(c.Request().Context(), userID, c.Param("id"), req.Rating, req.Text)
	if err != nil {
		return err
	}

	metrics.ReviewsPostedTotal.WithLabelValues(strconv.Itoa(review.Rating)).Inc()
	return c.JSON(http.StatusCreated, review)
}

// ListForGame handles GET /api/juegos/:id/resenas (public).
//
// @Summary      List a game's reviews
// @Tags         reviews
// @Produce      json
// @Param        id  path      string  true  "Game ID"
// @Success      200  {object}  listReviewsResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/juegos/{id}/resenas [get]
func (h *ReviewHandler) ListForGame(c echo.Context) error {
	reviews, rating, err := h.service.ListForGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return c.JSON(http.StatusOK, listReviewsResponse{
		Reviews: reviews,
		Rating:  ratingResponse{Average: rating.Average, Count: rating.Count},
	})
}

// Delete handles DELETE /api/resenas/:id (author or admin).
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id  path  string  true  "Review ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/resenas/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, role, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
