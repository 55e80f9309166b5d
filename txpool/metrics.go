// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package txpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics exposes the pool's gauges/counters to a Prometheus registry
// (SPEC_FULL.md DOMAIN STACK: "ready/future gauges, admitted/dropped/banned
// counters").
type metrics struct {
	ready   prometheus.Gauge
	future  prometheus.Gauge
	admitted prometheus.Counter
	dropped prometheus.Counter
	banned  prometheus.Counter
	invalid prometheus.Counter
}

func newMetrics(namespace string) *metrics {
	return &metrics{
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pool_ready", Help: "Number of ready transactions.",
		}),
		future: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pool_future", Help: "Number of future transactions.",
		}),
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pool_admitted_total", Help: "Total transactions admitted.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pool_dropped_total", Help: "Total transactions dropped by limit enforcement.",
		}),
		banned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pool_banned_total", Help: "Total hashes banned by the rotator.",
		}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pool_invalid_total", Help: "Total transactions rejected as invalid.",
		}),
	}
}

// Register registers every metric with reg.
func (m *metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.ready, m.future, m.admitted, m.dropped, m.banned, m.invalid)
}

func (m *metrics) observeStatus(s PoolStatus) {
	m.ready.Set(float64(s.Ready))
	m.future.Set(float64(s.Future))
}
