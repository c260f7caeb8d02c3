// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api implements the HTTP surface named in spec.md §6: ballot
// submission and the two results-read endpoints, wrapped in a common
// response envelope. Adapted from the teacher's api.Response /
// api.WriteJSON / api.WriteError helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is the wire version stamped into every response's metadata.
const Version = "1"

// Envelope is the response wrapper spec.md §6 requires of every endpoint.
type Envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ErrorBody is the error shape nested in Envelope.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func metadata() Metadata {
	return Metadata{Timestamp: time.Now().UTC(), Version: Version}
}

// WriteData writes a successful envelope with status 200.
func WriteData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Metadata: metadata()})
}

// WriteErr writes a failure envelope with the given status and error kind.
func WriteErr(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, Envelope{
		Success:  false,
		Error:    &ErrorBody{Error: kind, Detail: detail},
		Metadata: metadata(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
