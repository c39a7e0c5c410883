package handler

import (
	"context"
	"net/http"
	"strconv"

	"storebot/internal/domain/model"
	"storebot/internal/infra/journal"
	"storebot/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済試行の履歴（journal.MongoJournal / journal.Nop）
type CheckoutHistory interface {
	Recent(ctx context.Context, userID int64, limit int64) ([]journal.CheckoutEntry, error)
}

// /ops の運用API（JWT必須）
type OpsHandler struct {
	uc      *usecase.ReservationUsecase
	history CheckoutHistory
}

// DI（historyがnilなら /checkouts は生やさない）
func NewOpsHandler(uc *usecase.ReservationUsecase, history CheckoutHistory) *OpsHandler {
	return &OpsHandler{uc: uc, history: history}
}

// 運用ルートを登録
func (h *OpsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reservations", h.listReservations)
	if h.history != nil {
		g.GET("/checkouts", h.listCheckouts)
	}
}

type ReservationListResponse struct {
	Items []model.Reservation `json:"items"`
	Count int                 `json:"count"`
}

func (h *OpsHandler) listReservations(c echo.Context) error {
	var in usecase.ListReservationsInput

	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		in.UserID = &id
	}

	if v := c.QueryParam("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
		}
		in.ProductID = &id
	}

	// limit（default 100）
	in.Limit = 100
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}

	items, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Reservation{}
	}

	return c.JSON(http.StatusOK, ReservationListResponse{Items: items, Count: len(items)})
}

type CheckoutListResponse struct {
	Items []journal.CheckoutEntry `json:"items"`
	Count int                     `json:"count"`
}

// user_id必須、limitは1〜100（default 20）
func (h *OpsHandler) listCheckouts(c echo.Context) error {
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	limit := int64(20)
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.ParseInt(v, 10, 64)
		if err != nil || l < 1 || l > 100 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	items, err := h.history.Recent(c.Request().Context(), userID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	if items == nil {
		items = []journal.CheckoutEntry{}
	}

	return c.JSON(http.StatusOK, CheckoutListResponse{Items: items, Count: len(items)})
}
