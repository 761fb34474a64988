package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/nordkart/checkout-svc/internal/service/models/order"
)

type service interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids        []int64  `schema:"ids,omitempty"`
	SessionIds []string `schema:"sessionIds,omitempty"`
	Limit      int      `schema:"limit,omitempty"`
	Offset     int      `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) ToModel() *order.QueryOrdersModel {
	return &order.QueryOrdersModel{
		Ids:        q.Ids,
		SessionIds: q.SessionIds,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryOrdersRequest{}
	err := decoder.Decode(query, r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid query parameters", http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), query.ToModel())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
