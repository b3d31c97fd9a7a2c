// Package http writes the response envelope and adapts chi to the Router seam
package http

import (
	"encoding/json"
	"net/http"

	pnet "stashbox/internal/platform/net"
)

// Envelope is the body of every response
type Envelope = pnet.Envelope

// Page describes one page of a list
type Page struct {
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Cursor   string `json:"cursor,omitempty"`
}

// JSON writes v with status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return style handlers produce; an error Body becomes an error envelope
type Response struct {
	Status int
	Body   any
}

// Handle adapts a return style handler
func Handle(h func(r *http.Request) Response) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w http.ResponseWriter, r *http.Request) {
	reqID := pnet.RequestID(r.Context())
	if err, ok := resp.Body.(error); ok {
		status, env := pnet.Fail(err, reqID)
		JSON(w, status, env)
		return
	}
	status := resp.Status
	switch status {
	case 0:
		status = http.StatusOK
	case http.StatusNoContent:
		w.WriteHeader(status)
		return
	}
	JSON(w, status, pnet.Reply(status, resp.Body, reqID))
}

func OK(data any) Response      { return Response{Status: http.StatusOK, Body: data} }
func Created(data any) Response { return Response{Status: http.StatusCreated, Body: data} }
func NoContent() Response       { return Response{Status: http.StatusNoContent} }
func Error(err error) Response  { return Response{Body: err} }

// List answers 200 with items and their page
func List(items any, total, page, size int, cursor string) Response {
	return OK(struct {
		Items any  `json:"items"`
		Page  Page `json:"page"`
	}{items, Page{Total: total, Page: page, PageSize: size, Cursor: cursor}})
}
