// Package proto defines the request and response messages of the
// dinnerparty.v1 API. Messages travel as JSON with camelCase field names.
package proto
