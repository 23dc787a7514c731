package dto

import apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code, a readable message and optional details.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details ErrorDetails `json:"details"`
}

// ErrorDetails holds the details a client acts on.
type ErrorDetails struct {
	Fields []apperrors.FieldIssue `json:"fields,omitempty"`
}
