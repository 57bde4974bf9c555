// Package api builds the uniform HTTP response envelope shared by every
// handler: JSON bodies, permissive cross-origin headers, and a fixed error
// shape of {"error": message}.
package api

import (
	"encoding/json"
	"net/http"
)

// writeHeaders applies the fixed response headers. Every response, success or
// error, carries the permissive CORS pair so the browser client can call the
// API from any origin.
func writeHeaders(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.WriteHeader(status)
}

// Success sends a 200 response with the given body
func Success(w http.ResponseWriter, body interface{}) {
	writeHeaders(w, http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// Created sends a 201 response with the given body
func Created(w http.ResponseWriter, body interface{}) {
	writeHeaders(w, http.StatusCreated)
	json.NewEncoder(w).Encode(body)
}

// Error sends an error response with the caller-given status
func Error(w http.ResponseWriter, status int, message string) {
	writeHeaders(w, status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
