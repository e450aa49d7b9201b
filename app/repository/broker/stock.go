package broker

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront-service/app/domain"

	"github.com/nats-io/nats.go/jetstream"
)

type stockBroker struct {
	js jetstream.JetStream
}

func NewStockBrokerPublisher(stream jetstream.JetStream) domain.BrokerPublisher {
	return &stockBroker{
		js: stream,
	}
}

func (s *stockBroker) PublishStockChanged(ctx context.Context, data domain.StockMessage) error {
	msg, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "[stockBroker] PublishStockChanged", "json.Marshal", err)
		return err
	}

	if _, err = s.js.Publish(ctx, "stock.changed", msg); err != nil {
		slog.ErrorContext(ctx, "[stockBroker] PublishStockChanged", "Publish", err)
		return err
	}

	slog.InfoContext(ctx, "[stockBroker] PublishStockChanged", "product_id", data.ProductID, "stock", data.Stock)
	return nil
}
