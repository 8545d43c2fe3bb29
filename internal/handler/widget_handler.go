package handler

import (
	"net/http"

	"cartwidget/internal/middleware"
	"cartwidget/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カートウィジェットのHTTP
type WidgetHandler struct {
	uc *usecase.WidgetUsecase
}

// DI
func NewWidgetHandler(uc *usecase.WidgetUsecase) *WidgetHandler {
	return &WidgetHandler{uc: uc}
}

// クリックされた要素
type ClickRequest struct {
	Area   string `json:"area"`
	Class  string `json:"class"`
	DataID string `json:"data_id"`
}

type UnloadResponse struct {
	Closed bool `json:"closed"`
}

// ページとイベントのルートを登録
func (h *WidgetHandler) RegisterRoutes(e *echo.Echo, issuer *middleware.SessionIssuer) {
	sess := middleware.Session(issuer)

	e.GET("/", h.page, sess)
	e.GET("/cart", h.getCart, sess)
	e.POST("/events/click", h.click, sess)
	e.POST("/events/unload", h.unload, sess)
}

// ページ読み込み
func (h *WidgetHandler) page(c echo.Context) error {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no session"})
	}

	out, err := h.uc.OpenPage(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.HTML(http.StatusOK, out)
}

func (h *WidgetHandler) getCart(c echo.Context) error {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no session"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *WidgetHandler) click(c echo.Context) error {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no session"})
	}

	var req ClickRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Click(c.Request().Context(), sessionID, usecase.ClickInput{
		Area:   req.Area,
		Class:  req.Class,
		DataID: req.DataID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ページを離れた
func (h *WidgetHandler) unload(c echo.Context) error {
	sessionID, ok := middleware.SessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no session"})
	}

	return c.JSON(http.StatusOK, UnloadResponse{Closed: h.uc.Unload(sessionID)})
}
