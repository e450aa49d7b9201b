package domain

import "context"

type StockMessage struct {
	ProductID int64 `json:"product_id"`
	Stock     int64 `json:"stock"`
}

type BrokerPublisher interface {
	PublishStockChanged(ctx context.Context, data StockMessage) error
}
