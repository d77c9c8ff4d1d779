// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

	mux.HandleFunc("GET /polls", middleware.WithLogging(middleware.WithMetrics(handler)))

WithLogging assigns a request id (X-Request-ID) and logs method, path,
status and duration_ms. WithMetrics records latency per route pattern in
pollify_http_request_duration_seconds. Both share one status recorder.

# Authentication

Authenticate reads an optional "Authorization: Bearer <jwt>" header. A
valid token puts its subject in the request context, readable with
Requester. Invalid tokens get 401; so do missing tokens when required.

# Rate Limiting and Compression

RateLimit applies a per-IP token bucket (tollbooth) and answers 429 with a
JSON error body. Gzip compresses responses for clients that accept it.

# CORS

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, PATCH, DELETE, OPTIONS with Content-Type and
Authorization headers.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "poll not found")

Error bodies have the form {"error": "Not Found", "message": "..."}.
*/
package middleware
