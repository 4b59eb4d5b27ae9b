package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pyxolotl/marketplace-api/internal/api/metrics"
	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// GameHandler handles HTTP requests for the listing lifecycle and catalog.
type GameHandler struct {
	service ports.GameService
}

func NewGameHandler(service ports.GameService) *GameHandler {
	return &GameHandler{service: service}
}

// Submit handles POST /api/juegos.
//
// @Summary      Submit a game for review
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitGameRequest  true  "Listing details"
// @Success      201   {object}  gameResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/juegos [post]
func (h *GameHandler) Submit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req submitGameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	game, err := h.service.Submit(c.Request().Context(), ports.SubmitGameInput{
		DeveloperID:    userID,
		Title:          req.Title,
		Description:    req.Description,
		Genre:          req.Genre,
		Price:          req.Price,
		Requirements:   req.Requirements,
		CoverRef:       req.CoverRef,
		ScreenshotRefs: req.ScreenshotRefs,
		TrailerRef:     req.TrailerRef,
		DownloadKind:   domain.DownloadKind(req.DownloadKind),
		BuildRef:       req.BuildRef,
		SizeMB:         req.SizeMB,
	})
	if err != nil {
		return err
	}

	metrics.GamesSubmittedTotal.Inc()
	return c.JSON(http.StatusCreated, toGameResponse(&ports.GameSummary{Game: game}))
}

// Review handles POST /api/juegos/:id/revision (admin only).
//
// @Summary      Approve or reject a pending listing
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Game ID"
// @Param        body  body      reviewDecisionRequest  true  "Moderation decision"
// @Success      200   {object}  gameResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/juegos/{id}/revision [post]
func (h *GameHandler) Review(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req reviewDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	game, err := h.service.Review(c.Request().Context(), userID, c.Param("id"), ports.ReviewDecision{
		Approve: req.Approve,
		Reason:  req.Reason,
	})
	if err != nil {
		return err
	}

	decision := "rejected"
	if req.Approve {
		decision = "approved"
	}
	metrics.ReviewDecisionsTotal.WithLabelValues(decision).Inc()

	return c.JSON(http.StatusOK, toGameResponse(&ports.GameSummary{Game: game}))
}

// Catalog handles GET /api/juegos/catalogo (public, approved listings only).
//
// @Summary      Browse the public catalog
// @Tags         games
// @Produce      json
// @Param        busqueda    query     string   false  "Search in title and description"
// @Param        genero      query     string   false  "Genre filter"
// @Param        precio_min  query     number   false  "Minimum price"
// @Param        precio_max  query     number   false  "Maximum price"
// @Param        gratis      query     boolean  false  "Free games only"
// @Param        orden       query     string   false  "Sort key: fecha, precio, rating"
// @Param        asc         query     boolean  false  "Ascending sort"
// @Param        pagina      query     integer  false  "Page number (1-based)"
// @Param        limite      query     integer  false  "Page size"
// @Success      200  {object}  listGamesResponse
// @Router       /api/juegos/catalogo [get]
func (h *GameHandler) Catalog(c echo.Context) error {
	q := ports.CatalogQuery{
		Search:   c.QueryParam("busqueda"),
		Genre:    c.QueryParam("genero"),
		FreeOnly: c.QueryParam("gratis") == "true",
		SortBy:   c.QueryParam("orden"),
		SortAsc:  c.QueryParam("asc") == "true",
		Page:     queryInt(c, "pagina"),
		Limit:    queryInt(c, "limite"),
	}
	if v, err := strconv.ParseFloat(c.QueryParam("precio_min"), 64); err == nil {
		q.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("precio_max"), 64); err == nil {
		q.PriceMax = &v
	}

	list, err := h.service.Catalog(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListGamesResponse(list))
}

// Get handles GET /api/juegos/:id. Non-approved listings are visible only to
// their owning developer and to admins; claims are optional here.
//
// @Summary      Get a game by ID
// @Tags         games
// @Produce      json
// @Param        id  path      string  true  "Game ID"
// @Success      200  {object}  gameResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/juegos/{id} [get]
func (h *GameHandler) Get(c echo.Context) error {
	callerID, _ := c.Get("user_id").(string)
	callerRole, _ := c.Get("role").(string)

	summary, err := h.service.Get(c.Request().Context(), c.Param("id"), callerID, callerRole)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGameResponse(summary))
}

// Pending handles GET /api/juegos/pendientes (admin only).
//
// @Summary      List listings awaiting review
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        pagina  query     integer  false  "Page number (1-based)"
// @Param        limite  query     integer  false  "Page size"
// @Success      200     {object}  listGamesResponse
// @Router       /api/juegos/pendientes [get]
func (h *GameHandler) Pending(c echo.Context) error {
	list, err := h.service.Pending(c.Request().Context(), queryInt(c, "pagina"), queryInt(c, "limite"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListGamesResponse(list))
}

// Mine handles GET /api/juegos/mis-juegos (developer only). Lists the
// caller's own listings in every status, including rejection reasons.
//
// @Summary      List own listings
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        pagina  query     integer  false  "Page number (1-based)"
// @Param        limite  query     integer  false  "Page size"
// @Success      200     {object}  listGamesResponse
// @Router       /api/juegos/mis-juegos [get]
func (h *GameHandler) Mine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	list, err := h.service.Mine(c.Request().Context(), userID, queryInt(c, "pagina"), queryInt(c, "limite"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListGamesResponse(list))
}

// queryInt parses a numeric query param, returning 0 when absent or invalid.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
