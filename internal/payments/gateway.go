package payments

import (
	"context"
	"fmt"
	"log/slog"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is a checkout session created at the gateway before the client pays.
type Order struct {
	OrderID  string
	Amount   int64
	Currency string
}

// Gateway creates orders at the external payment processor. The confirmation
// leg never goes through this interface: the client forwards the gateway's
// (orderID, paymentID, signature) triple to the API, which verifies it with
// SignatureVerifier.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}

// RazorpayGateway implements Gateway on top of the Razorpay orders API.
type RazorpayGateway struct {
	client *razorpay.Client
	logger *slog.Logger
}

func NewRazorpayGateway(keyID, keySecret string, logger *slog.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		logger: logger,
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// CreateOrder opens a checkout order. Amount is in the smallest currency unit.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("Failed to create gateway order",
			slog.Int64("amount", amount),
			slog.String("currency", currency),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	orderID, ok := resp["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}

	g.logger.Info("Gateway order created",
		slog.String("order_id", orderID),
		slog.Int64("amount", amount),
		slog.String("currency", currency),
	)

	return &Order{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
	}, nil
}
