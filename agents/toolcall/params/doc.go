/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params reads typed tool arguments out of decoded JSON and builds
// the error responses returned to the model when they are unusable.
package params
