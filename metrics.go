package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	updates    *prometheus.CounterVec
	showErrors prometheus.Counter
	powerOn    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledbeat",
			Name:      "range_updates_total",
			Help:      "Range updates, by range and whether a frame was shown",
		}, []string{"range", "result"}),
		showErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ledbeat",
			Name:      "show_errors_total",
			Help:      "Frames the device failed to show",
		}),
		powerOn: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledbeat",
			Name:      "power_on",
			Help:      "1 while LED power is switched on",
		}),
	}
}

func (m *metrics) update(name string, shown bool, err error) {
	result := "skipped"
	if shown {
		result = "shown"
	}
	m.updates.WithLabelValues(name, result).Inc()
	if err != nil {
		m.showErrors.Inc()
	}
}

func (m *metrics) power(on bool) {
	if on {
		m.powerOn.Set(1)
	} else {
		m.powerOn.Set(0)
	}
}
