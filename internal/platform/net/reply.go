package net

import (
	"net/http"

	perr "gridwatch/internal/platform/errors"
)

// Wire is the JSON envelope shared by handlers and middleware
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Error builds the envelope for a failed request, status derived from the error code
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	w := Wire{RequestID: reqID}
	if err != nil {
		status = perr.HTTPStatus(err)
		ew := perr.WireFrom(err)
		w.Code, w.Error = ew.Code, ew.Message
	}
	w.StatusCode, w.Status = status, http.StatusText(status)
	return status, w
}
