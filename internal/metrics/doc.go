// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package metrics defines the Prometheus collectors of the service.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Metrics

Every name is prefixed with shelfwise_ and grouped by subsystem:

  - recommend_*: requests by outcome, fallbacks by cause, latency,
    candidates above the inclusion threshold, items returned
  - artifacts_*: loads by source and result, load latency, books and
    matrix presence of the served index, last successful load
  - search_*: indexed books, queries by hit or miss
  - store_*: user-data store latency and failures by backend and operation
  - http_*: requests by route and status, latency, in-flight requests,
    rate-limited requests
  - breaker_*: state (0 closed, 1 half-open, 2 open), calls by result,
    consecutive failures, transitions
  - build_info

# Example Alerts

	groups:
	  - name: shelfwise
	    rules:
	      - alert: RecommendationsFallingBack
	        expr: sum(rate(shelfwise_recommend_fallbacks_total{cause!="no_candidates"}[5m])) > 0.1
	        for: 10m
	      - alert: StoreBreakerOpen
	        expr: shelfwise_breaker_state == 2
	        for: 1m
*/
package metrics
