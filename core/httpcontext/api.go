package httpcontext

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// SuccessCode labels a successful API result.
type SuccessCode string

// Common success codes.
const (
	CodeOK       SuccessCode = "OK"
	CodeCreated  SuccessCode = "CREATED"
	CodeUpdated  SuccessCode = "UPDATED"
	CodeDeleted  SuccessCode = "DELETED"
	CodeAccepted SuccessCode = "ACCEPTED"
)

// CodeInternalError is the failure code used when an API handler returns a plain error.
const CodeInternalError = "INTERNAL_SERVER_ERROR"

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is either a Success or a Failure.
type Result interface {
	Envelope() Envelope
	StatusCode() int
}

// Success is a successful API result. It is sent with status 200.
type Success struct {
	Code SuccessCode
	Data any
}

// Envelope implements Result.
func (s Success) Envelope() Envelope {
	code := s.Code
	if code == "" {
		code = CodeOK
	}
	return Envelope{Success: true, Code: string(code), Data: s.Data}
}

// StatusCode implements Result.
func (s Success) StatusCode() int {
	return http.StatusOK
}

// Failure is an API error result. Status defaults to 400.
// Failure implements error so API handlers can return it directly.
type Failure struct {
	Code    string
	Message string
	Data    any
	Status  int
}

// Envelope implements Result.
func (f Failure) Envelope() Envelope {
	return Envelope{Success: false, Code: f.Code, Data: f.Data, Message: f.Message}
}

// StatusCode implements Result.
func (f Failure) StatusCode() int {
	if f.Status == 0 {
		return http.StatusBadRequest
	}
	return f.Status
}

// Error implements error.
func (f Failure) Error() string {
	if f.Message == "" {
		return f.Code
	}
	return f.Code + ": " + f.Message
}

// APIResult writes res as a JSON envelope. Extra headers are merged into the response.
func (c *Context) APIResult(res Result, headers http.Header) error {
	body, err := json.Marshal(res.Envelope())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEnvelopeEncode, err)
	}
	return c.Response(ResponseOptions{
		Headers:     headers,
		StatusCode:  res.StatusCode(),
		ContentType: "application/json",
		Encoding:    "utf-8",
		Content:     body,
	})
}

// APIResponse writes a success envelope with code OK.
func (c *Context) APIResponse(data any) error {
	return c.APIResult(Success{Code: CodeOK, Data: data}, nil)
}

// APIResponseSuccess writes a success envelope with the given code.
// additionalHeaders (for example Set-Cookie) are merged into the response.
func (c *Context) APIResponseSuccess(code SuccessCode, data any, additionalHeaders http.Header) error {
	return c.APIResult(Success{Code: code, Data: data}, additionalHeaders)
}

// APIResponseError writes a failure envelope with status 400.
func (c *Context) APIResponseError(code, message string, data any) error {
	return c.APIResult(Failure{Code: code, Message: message, Data: data}, nil)
}

// APIRoute is Route for JSON handlers. A Failure returned by handler is
// written as its envelope. Any other error is written as a 500 envelope and
// returned so the dispatcher can log it.
func (c *Context) APIRoute(pattern string, handler func(params map[string]string) error) error {
	return c.Route(pattern, func(params map[string]string) error {
		err := handler(params)
		if err == nil {
			return nil
		}

		var failure Failure
		if errors.As(err, &failure) {
			return c.APIResult(failure, nil)
		}

		if werr := c.APIResult(Failure{
			Code:    CodeInternalError,
			Message: http.StatusText(http.StatusInternalServerError),
			Status:  http.StatusInternalServerError,
		}, nil); werr != nil {
			return errors.Join(err, werr)
		}
		return err
	})
}
