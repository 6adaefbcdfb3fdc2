// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zhtp/web4/content"
)

// apiResponse is the JSON envelope for every /api/v1/web4/ response,
// grounded on the teacher's own api.Response shape.
type apiResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, result interface{}) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Result: result})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, apiResponse{Success: false, Error: &apiError{Code: status, Message: err.Error()}})
}

// statusForContentError maps a content.Service error to its HTTP status,
// generic enough to avoid leaking internal detail to the caller.
func statusForContentError(err error) int {
	switch {
	case errors.Is(err, content.ErrDomainNotFound), errors.Is(err, content.ErrContentNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrPathTraversal):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrHTMLServingDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
