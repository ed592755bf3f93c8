// Package handler implements the inbound HTTP surface of the elector:
// request decoding and validation, the election call, and the mapping of
// election outcomes to HTTP responses.
package handler
