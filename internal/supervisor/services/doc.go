// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package services adapts server components to suture.Service.
//
// HTTPService wraps *http.Server and drains it when the supervisor stops.
// ArtifactReloadService refreshes the artifact holder on a ticker. Both name
// themselves through String for supervisor events.
package services
