package repository

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ca-srg/tzexplorer/domain/repository"
)

// Field numbers from prometheus/prompb/remote.proto and types.proto
const (
	writeRequestTimeseriesField protowire.Number = 1

	timeSeriesLabelsField  protowire.Number = 1
	timeSeriesSamplesField protowire.Number = 2

	labelNameField  protowire.Number = 1
	labelValueField protowire.Number = 2

	sampleValueField     protowire.Number = 1
	sampleTimestampField protowire.Number = 2
)

const metricNameLabel = "__name__"

// encodeWriteRequest serializes one TimeSeries per sample, all stamped with timestampMs
func encodeWriteRequest(samples []repository.MetricSample, timestampMs int64) []byte {
	var buf []byte
	for _, s := range samples {
		buf = protowire.AppendTag(buf, writeRequestTimeseriesField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeTimeSeries(s, timestampMs))
	}
	return buf
}

func encodeTimeSeries(s repository.MetricSample, timestampMs int64) []byte {
	labels := make(map[string]string, len(s.Labels)+1)
	for k, v := range s.Labels {
		labels[k] = v
	}
	labels[metricNameLabel] = s.Name

	// Remote Write receivers expect labels sorted by name
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)

	var buf []byte
	for _, name := range names {
		buf = protowire.AppendTag(buf, timeSeriesLabelsField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLabel(name, labels[name]))
	}
	buf = protowire.AppendTag(buf, timeSeriesSamplesField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, encodeSample(s.Value, timestampMs))
	return buf
}

func encodeLabel(name, value string) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, labelNameField, protowire.BytesType)
	buf = protowire.AppendString(buf, name)
	buf = protowire.AppendTag(buf, labelValueField, protowire.BytesType)
	buf = protowire.AppendString(buf, value)
	return buf
}

func encodeSample(value float64, timestampMs int64) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, sampleValueField, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, math.Float64bits(value))
	buf = protowire.AppendTag(buf, sampleTimestampField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(timestampMs))
	return buf
}
