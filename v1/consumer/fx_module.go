package consumer

import (
	"context"

	"github.com/Aleph-Alpha/kstream/v1/observability"
	"go.uber.org/fx"
)

// RawConsumer is a consumer that leaves keys and values as raw bytes. It is
// what the fx module provides; applications needing typed records construct
// their own Consumer with NewConsumer.
type RawConsumer = Consumer[[]byte, []byte]

// FXModule is an fx.Module that provides and tears down a raw-bytes consumer.
//
// The module provides *RawConsumer and hooks it into the fx lifecycle: on
// application stop the fiber is cancelled and joined, bounded by the stop
// context.
//
// Usage:
//
//	app := fx.New(
//	    consumer.FXModule,
//	    fx.Provide(func() consumer.Config {
//	        return consumer.Config{
//	            Brokers: []string{"localhost:9092"},
//	            GroupID: "order-processors",
//	            Factory: franz.Factory(),
//	        }
//	    }),
//	)
var FXModule = fx.Module("consumer",
	fx.Provide(
		NewConsumerWithDI,
	),
	fx.Invoke(RegisterConsumerLifecycle),
)

// ConsumerParams groups the dependencies needed to create a raw consumer.
type ConsumerParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewConsumerWithDI creates a raw-bytes consumer using dependency injection.
// The optional logger and observer are injected when present in the
// container.
func NewConsumerWithDI(params ConsumerParams) (*RawConsumer, error) {
	cfg := params.Config
	if params.Logger != nil {
		cfg.Logger = params.Logger
	}
	c, err := NewConsumer(cfg, BytesDeserializer(), BytesDeserializer())
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		c.WithObserver(params.Observer)
	}
	return c, nil
}

// RegisterConsumerLifecycle ties the consumer's fiber to the fx lifecycle.
func RegisterConsumerLifecycle(lc fx.Lifecycle, c *RawConsumer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.Fiber().Cancel()
			return c.Fiber().Join(ctx)
		},
	})
}
