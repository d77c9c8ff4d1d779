// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package blob stores option images on the local filesystem and builds the
// public URLs they are served under (see URLPrefix).
package blob
