package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.code,
			o.state,
			s.tracking_code
		FROM orders o
		LEFT JOIN shipping_records s ON s.order_id = o.id
		WHERE o.state NOT IN ?
		ORDER BY o.created_at, o.id
		LIMIT ?
	`, terminalStateNames(), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp         GetActiveOrdersQueryResponse
			state        string
			trackingCode sql.NullString
		)
		if err = rows.Scan(&resp.ID, &resp.Code, &state, &trackingCode); err != nil {
			return nil, err
		}
		if resp.State, err = order.ParseState(state); err != nil {
			return nil, err
		}
		resp.TrackingCode = trackingCode.String
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func terminalStateNames() []string {
	names := make([]string, 0, 3)
	for _, s := range order.AllStates() {
		if s.IsTerminal() {
			names = append(names, s.String())
		}
	}
	return names
}
