package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InventoryFunc returns the number of complete key sets per lifecycle stage.
type InventoryFunc func(ctx context.Context) (map[string]int, error)

// RegisterKeySetGauge registers an observable gauge <namespace>_key_sets with a
// stage label. The inventory is read on every collection, so the gauge follows
// rotations made by other processes sharing the key directory.
func RegisterKeySetGauge(meterProvider metric.MeterProvider, namespace string, inventory InventoryFunc) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_key_sets", namespace),
		metric.WithDescription("Number of complete key sets per lifecycle stage"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			counts, err := inventory(ctx)
			if err != nil {
				return err
			}
			for stage, count := range counts {
				observer.Observe(int64(count), metric.WithAttributes(attribute.String("stage", stage)))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create key set gauge: %w", err)
	}

	return nil
}
