// Package client talks to the runauth HTTP API.
//
// Client is the transport-agnostic contract used by the CLI services;
// HTTPClient implements it over net/http. Non-2xx responses come back as
// *APIError, which unwraps to ErrUnauthorized, ErrBadRequest,
// ErrInvalidRequest or ErrUnavailable so callers can use errors.Is.
// Connection failures are reported as ErrUnavailable too.
package client
