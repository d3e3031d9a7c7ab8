// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instruments for explanation runs.
//
// A Registry owns its own prometheus.Registry, so several explainers (or
// tests) never collide on metric names. Gatherer returns it for scraping.
package metrics
