// Package telemetry publishes run summaries to a Prometheus Pushgateway.
// Seeding is a batch job, so metrics are pushed once after the run instead of
// scraped.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Summary holds the counters pushed after a run.
type Summary struct {
	Deleted  int
	Created  int
	Uploaded int
	Linked   int
	Warnings int
	Failures int
	Duration time.Duration
}

// Push sends the summary to the Pushgateway at gatewayURL under the
// mealdash_seeder job, replacing the previous run's values. Failures here are
// for the caller to log; the seed result is already committed remotely.
func Push(gatewayURL string, s Summary) error {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mealdash",
			Subsystem: "seeder",
			Name:      name,
			Help:      help,
		})
		g.Set(value)
		registry.MustRegister(g)
	}

	gauge("records_deleted", "Records and files removed during the reset phase.", float64(s.Deleted))
	gauge("records_created", "Category, customization and menu item records created.", float64(s.Created))
	gauge("images_uploaded", "Images imported into the storage bucket.", float64(s.Uploaded))
	gauge("links_created", "Menu-customization join records created.", float64(s.Linked))
	gauge("warnings_total", "Steps that failed as tolerated warnings.", float64(s.Warnings))
	gauge("failures_total", "Steps that failed as errors.", float64(s.Failures))
	gauge("run_duration_seconds", "Wall-clock duration of the run.", s.Duration.Seconds())

	if err := push.New(gatewayURL, "mealdash_seeder").Gatherer(registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
