// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the docmark pipeline:
// the stored Document record, its extraction metadata, and the typed
// configuration for each stage.
package types
