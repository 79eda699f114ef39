// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

# Tree Layout

	shelfwise (root)
	├── data-layer
	│   └── artifact-reloader
	└── api-layer
	    └── http-server

A crash in one layer restarts only that layer's children. If the artifact
reloader panics, the HTTP server keeps answering from the index that is
already loaded.

# Usage

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.Policy{Timeout: 15 * time.Second})
	tree.AddDataService(services.NewArtifactReloadService(holder, reloadCfg, logger))
	tree.AddAPIService(services.NewHTTPService(srv, 15*time.Second, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Restart Policy

Policy maps onto suture.Spec. Each failure increments a counter that decays
over Decay. Once it passes Threshold the supervisor waits Backoff before the
next restart. Zero fields take the values from DefaultPolicy.

Supervisor events are logged through sutureslog, which writes to the
zerolog-backed slog handler from the logging package.

# Not Supervised

The DuckDB and MySQL handles and the Badger store are plain libraries owned
by main. They do not run goroutines of their own that need restarting.
*/
package supervisor
