package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// AdminHandler handles the moderation console endpoints. Routes are gated
// behind the admin role at the router.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type userOverviewResponse struct {
	User          *domain.User `json:"user"`
	GameCount     int64        `json:"game_count"`
	PurchaseCount int64        `json:"purchase_count"`
}

type gameOverviewResponse struct {
	Game          gameSummaryResponse `json:"game"`
	DeveloperName string              `json:"developer_name"`
	ReviewCount   int64               `json:"review_count"`
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Dashboard totals
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AdminStats
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/usuarios.
//
// @Summary      List accounts with activity counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        verificado  query     boolean  false  "Filter by verification state"
// @Param        salto       query     integer  false  "Rows to skip"
// @Param        limite      query     integer  false  "Page size"
// @Success      200  {array}  userOverviewResponse
// @Router       /api/admin/usuarios [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	f := ports.UserAdminFilter{
		Skip:  queryInt(c, "salto"),
		Limit: queryInt(c, "limite"),
	}
	switch c.QueryParam("verificado") {
	case "true":
		v := true
		f.Verified = &v
	case "false":
		v := false
		f.Verified = &v
	}

	users, err := h.service.ListUsers(c.Request().Context(), f)
	if err != nil {
		return err
	}

	out := make([]userOverviewResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userOverviewResponse{
			User:          u.User,
			GameCount:     u.GameCount,
			PurchaseCount: u.PurchaseCount,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ListGames handles GET /api/admin/juegos.
//
// @Summary      List listings across all statuses
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        estado         query     string   false  "Status filter: pending, approved, rejected"
// @Param        desarrollador  query     string   false  "Developer ID filter"
// @Param        salto          query     integer  false  "Rows to skip"
// @Param        limite         query     integer  false  "Page size"
// @Success      200  {array}  gameOverviewResponse
// @Router       /api/admin/juegos [get]
func (h *AdminHandler) ListGames(c echo.Context) error {
	f := ports.GameAdminFilter{
		Status:      domain.GameStatus(c.QueryParam("estado")),
		DeveloperID: c.QueryParam("desarrollador"),
		Skip:        queryInt(c, "salto"),
		Limit:       queryInt(c, "limite"),
	}

	games, err := h.service.ListGames(c.Request().Context(), f)
	if err != nil {
		return err
	}

	out := make([]gameOverviewResponse, 0, len(games))
	for _, g := range games {
		out = append(out, gameOverviewResponse{
			Game:          toGameSummaryResponse(ports.GameSummary{Game: g.Game}),
			DeveloperName: g.DeveloperName,
			ReviewCount:   g.ReviewCount,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteUser handles DELETE /api/admin/usuarios/:id. The optional
// borrar_juegos flag cascades to the user's listings.
//
// @Summary      Delete an account and its records
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id             path      string   true   "User ID"
// @Param        borrar_juegos  query     boolean  false  "Also delete the user's listings"
// @Success      200  {object}  ports.PurgeResult
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/usuarios/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.service.DeleteUser(c.Request().Context(), adminID, c.Param("id"), c.QueryParam("borrar_juegos") == "true")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteUserGames handles DELETE /api/admin/usuarios/:id/juegos.
//
// @Summary      Delete a user's listings, keeping the account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User ID"
// @Success      200  {object}  ports.PurgeResult
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/usuarios/{id}/juegos [delete]
func (h *AdminHandler) DeleteUserGames(c echo.Context) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.service.DeleteUserGames(c.Request().Context(), adminID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// PurgeUnverified handles DELETE /api/admin/usuarios/no-verificados. The
// dias query param sets the minimum account age; default 7.
//
// @Summary      Purge unverified accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        dias  query     integer  false  "Minimum account age in days (default 7)"
// @Success      200  {object}  ports.PurgeResult
// @Failure      400  {object}  errorResponse
// @Router       /api/admin/usuarios/no-verificados [delete]
func (h *AdminHandler) PurgeUnverified(c echo.Context) error {
	adminID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	days := queryInt(c, "dias")
	if days <= 0 {
		days = 7
	}

	res, err := h.service.PurgeUnverified(c.Request().Context(), adminID, time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
