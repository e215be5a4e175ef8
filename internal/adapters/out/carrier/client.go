// Package carrier is the HTTP client for a GHN-style shipping carrier API.
//
// Every endpoint is a POST with a JSON body. Responses share the envelope
// {"code": 200, "message": "Success", "data": ...}; any other code is a
// rejection reported as ErrCarrierRejected.
//
// Usage:
//
//	client := carrier.NewClient(carrier.Config{
//	    BaseURL: "https://online-gateway.ghn.vn/shiip/public-api",
//	    Token:   token,
//	    ShopID:  shopID,
//	    Name:    "ghn",
//	})
//	shipment, err := client.CreateShipment(ctx, o)
package carrier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var ErrCarrierRejected = errors.New("carrier rejected the request")

const (
	pathCreateOrder = "/v2/shipping-order/create"
	pathOrderDetail = "/v2/shipping-order/detail"
	pathCancelOrder = "/v2/switch-status/cancel"

	codeSuccess = 200

	// Buyer pays the shipping fee.
	paymentTypeBuyer = 2

	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL string
	Token   string
	ShopID  string
	Name    string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
	name string
}

var _ ports.CarrierClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	name := cfg.Name
	if name == "" {
		name = "ghn"
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Token", cfg.Token).
		SetHeader("ShopId", cfg.ShopID)

	return &Client{http: httpClient, name: name}
}

func (c *Client) Name() string {
	return c.name
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type createItem struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type createRequest struct {
	ClientOrderCode string       `json:"client_order_code"`
	PaymentTypeID   int          `json:"payment_type_id"`
	CODAmount       int64        `json:"cod_amount"`
	InsuranceValue  int64        `json:"insurance_value"`
	Items           []createItem `json:"items"`
}

type createData struct {
	OrderCode            string          `json:"order_code"`
	TotalFee             decimal.Decimal `json:"total_fee"`
	ExpectedDeliveryTime string          `json:"expected_delivery_time"`
}

// CreateShipment books a parcel for o. Cash on delivery is collected only
// when the order is COD and still unpaid.
func (c *Client) CreateShipment(ctx context.Context, o *order.Order) (ports.Shipment, error) {
	req := createRequest{
		ClientOrderCode: o.Code(),
		PaymentTypeID:   paymentTypeBuyer,
		InsuranceValue:  o.Amounts().Original().IntPart(),
	}
	if o.PaymentMethod() == order.PaymentCOD && !o.IsPaid() {
		req.CODAmount = o.Amounts().GrandTotal().IntPart()
	}
	for _, item := range o.Items() {
		productCode := strconv.FormatInt(item.ProductID(), 10)
		req.Items = append(req.Items, createItem{
			Name:     "product " + productCode,
			Code:     productCode,
			Quantity: item.Quantity(),
			Price:    item.UnitPrice().IntPart(),
		})
	}

	var out envelope[createData]
	if err := c.post(ctx, pathCreateOrder, req, &out); err != nil {
		return ports.Shipment{}, fmt.Errorf("create shipment for %s: %w", o.Code(), err)
	}

	code, err := kernel.NewTrackingCode(out.Data.OrderCode)
	if err != nil {
		return ports.Shipment{}, fmt.Errorf("create shipment for %s: %w", o.Code(), err)
	}
	return ports.Shipment{
		TrackingCode:       code,
		Fee:                out.Data.TotalFee,
		ExpectedDeliveryAt: parseTime(out.Data.ExpectedDeliveryTime),
	}, nil
}

type detailRequest struct {
	OrderCode string `json:"order_code"`
}

type detailData struct {
	OrderCode   string `json:"order_code"`
	Status      string `json:"status"`
	UpdatedDate string `json:"updated_date"`
}

func (c *Client) FetchStatus(ctx context.Context, code kernel.TrackingCode) (ports.ShipmentStatus, error) {
	var out envelope[detailData]
	if err := c.post(ctx, pathOrderDetail, detailRequest{OrderCode: code.String()}, &out); err != nil {
		return ports.ShipmentStatus{}, fmt.Errorf("fetch status of %s: %w", code, err)
	}
	return ports.ShipmentStatus{
		TrackingCode: code,
		Status:       out.Data.Status,
		UpdatedAt:    parseTime(out.Data.UpdatedDate),
	}, nil
}

type cancelRequest struct {
	OrderCodes []string `json:"order_codes"`
}

type cancelResult struct {
	OrderCode string `json:"order_code"`
	Result    bool   `json:"result"`
	Message   string `json:"message"`
}

func (c *Client) CancelShipment(ctx context.Context, code kernel.TrackingCode) error {
	var out envelope[[]cancelResult]
	if err := c.post(ctx, pathCancelOrder, cancelRequest{OrderCodes: []string{code.String()}}, &out); err != nil {
		return fmt.Errorf("cancel shipment %s: %w", code, err)
	}
	for _, r := range out.Data {
		if r.OrderCode == code.String() && !r.Result {
			return fmt.Errorf("cancel shipment %s: %w: %s", code, ErrCarrierRejected, r.Message)
		}
	}
	return nil
}

// post sends body and decodes the envelope into out, turning transport
// failures, HTTP errors and non-success codes into errors.
func (c *Client) post(ctx context.Context, path string, body any, out interface{ status() (int, string) }) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		SetError(out).
		Post(path)
	if err != nil {
		return err
	}

	code, message := out.status()
	if resp.IsError() {
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("%w: http %d: %s", ErrCarrierRejected, resp.StatusCode(), message)
	}
	if code != codeSuccess {
		return fmt.Errorf("%w: code %d: %s", ErrCarrierRejected, code, message)
	}
	return nil
}

func (e *envelope[T]) status() (int, string) {
	return e.Code, e.Message
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
