package impl

import (
	"strconv"
	"time"

	"github.com/ca-srg/tzexplorer/domain/repository"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

// MetricsDataCollectorImpl implements MetricsDataCollector
type MetricsDataCollectorImpl struct {
	snapshots usecase.SnapshotService
	resolver  repository.LocationResolver
	now       func() time.Time
}

// NewMetricsDataCollector creates a new MetricsDataCollector. A nil clock means time.Now.
func NewMetricsDataCollector(
	snapshots usecase.SnapshotService,
	resolver repository.LocationResolver,
	now func() time.Time,
) usecase.MetricsDataCollector {
	if now == nil {
		now = time.Now
	}
	return &MetricsDataCollectorImpl{
		snapshots: snapshots,
		resolver:  resolver,
		now:       now,
	}
}

// Collect implements usecase.MetricsDataCollector. Every sample carries the
// local zone labels; the host label is added by the repository.
func (c *MetricsDataCollectorImpl) Collect() []repository.MetricSample {
	stats := c.snapshots.Stats()
	base := c.localLabels()

	samples := []repository.MetricSample{
		{Name: usecase.MetricSnapshotsTotal, Value: float64(stats.Total()), Labels: withLabel(base, "", "")},
		{Name: usecase.MetricSnapshotFallbacks, Value: float64(stats.Fallbacks()), Labels: withLabel(base, "", "")},
	}

	outcomes := []struct {
		name  attemptOutcome
		count uint64
	}{
		{outcomePrimary, stats.Primary},
		{outcomeLocaleFallback, stats.LocaleFallback},
		{outcomeZoneFallback, stats.ZoneFallback},
		{outcomeSentinel, stats.Sentinel},
	}
	for _, o := range outcomes {
		samples = append(samples, repository.MetricSample{
			Name:   usecase.MetricSnapshotOutcomes,
			Value:  float64(o.count),
			Labels: withLabel(base, "outcome", o.name.String()),
		})
	}
	return samples
}

func (c *MetricsDataCollectorImpl) localLabels() map[string]string {
	info := c.resolver.LocalInfo(c.now())
	return map[string]string{
		"timezone":   info.Name,
		"utc_offset": info.Offset,
		"is_dst":     strconv.FormatBool(info.IsDST),
	}
}

// withLabel copies base, adding key=value when key is set
func withLabel(base map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	if key != "" {
		out[key] = value
	}
	return out
}
