// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package promstats exports a stats.Aggregator as Prometheus metrics.
package promstats

import (
	"net/http"

	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/resources"
	"github.com/gomlx/matinst/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace of the exported metrics.
const DefaultNamespace = "matinst"

// Collector is a prometheus.Collector reading the current values of a stats.Aggregator on every scrape.
//
// The values are exported as gauges: stats.Aggregator.Reset zeroes them, and heavy-hitter keys leave the
// top-k, so none of them is monotonic.
type Collector struct {
	aggregator   *stats.Aggregator
	heavyHitters int

	executed, compiled                            *prometheus.Desc
	hitterSeconds, hitterCount                    *prometheus.Desc
	transferCount, transferBytes, transferSeconds *prometheus.Desc
	compileSeconds, runSeconds                    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for the aggregator. Only the top heavyHitters keys are exported, all of
// them if heavyHitters <= 0.
func NewCollector(aggregator *stats.Aggregator, namespace string, heavyHitters int) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	name := func(n string) string { return prometheus.BuildFQName(namespace, "", n) }
	return &Collector{
		aggregator:   aggregator,
		heavyHitters: heavyHitters,
		executed: prometheus.NewDesc(name("instructions_executed"),
			"Number of instructions successfully executed, per device class.", []string{"device"}, nil),
		compiled: prometheus.NewDesc(name("instructions_compiled"),
			"Number of instructions compiled, per device class.", []string{"device"}, nil),
		hitterSeconds: prometheus.NewDesc(name("instruction_seconds"),
			"Accumulated execution time per heavy-hitter key.", []string{"key"}, nil),
		hitterCount: prometheus.NewDesc(name("instruction_count"),
			"Number of timed executions per heavy-hitter key.", []string{"key"}, nil),
		transferCount: prometheus.NewDesc(name("accelerator_transfers"),
			"Number of accelerator memory events, per kind.", []string{"kind"}, nil),
		transferBytes: prometheus.NewDesc(name("accelerator_transfer_bytes"),
			"Bytes involved in accelerator memory events, per kind.", []string{"kind"}, nil),
		transferSeconds: prometheus.NewDesc(name("accelerator_transfer_seconds"),
			"Time spent in accelerator memory events, per kind.", []string{"kind"}, nil),
		compileSeconds: prometheus.NewDesc(name("compile_seconds"),
			"Accumulated program compilation time.", nil, nil),
		runSeconds: prometheus.NewDesc(name("run_seconds"),
			"Accumulated program execution time.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range []*prometheus.Desc{
		c.executed, c.compiled, c.hitterSeconds, c.hitterCount,
		c.transferCount, c.transferBytes, c.transferSeconds, c.compileSeconds, c.runSeconds,
	} {
		ch <- desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	a := c.aggregator
	for _, device := range instructions.DeviceClassValues() {
		label := device.String()
		ch <- prometheus.MustNewConstMetric(c.executed, prometheus.GaugeValue, float64(a.Executed(device)), label)
		ch <- prometheus.MustNewConstMetric(c.compiled, prometheus.GaugeValue, float64(a.Compiled(device)), label)
	}
	for _, h := range a.HeavyHitters(c.heavyHitters) {
		ch <- prometheus.MustNewConstMetric(c.hitterSeconds, prometheus.GaugeValue, h.Time.Seconds(), h.Key)
		ch <- prometheus.MustNewConstMetric(c.hitterCount, prometheus.GaugeValue, float64(h.Count), h.Key)
	}
	for _, kind := range resources.TransferKindValues() {
		ts := a.Transfers(kind)
		label := kind.String()
		ch <- prometheus.MustNewConstMetric(c.transferCount, prometheus.GaugeValue, float64(ts.Count), label)
		ch <- prometheus.MustNewConstMetric(c.transferBytes, prometheus.GaugeValue, float64(ts.Bytes), label)
		ch <- prometheus.MustNewConstMetric(c.transferSeconds, prometheus.GaugeValue, ts.Time.Seconds(), label)
	}
	ch <- prometheus.MustNewConstMetric(c.compileSeconds, prometheus.GaugeValue, a.CompileTime().Seconds())
	ch <- prometheus.MustNewConstMetric(c.runSeconds, prometheus.GaugeValue, a.RunTime().Seconds())
}

// Handler returns an HTTP handler serving the metrics of the aggregator, on its own registry.
func Handler(aggregator *stats.Aggregator, heavyHitters int) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(aggregator, DefaultNamespace, heavyHitters)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}), nil
}
