package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
)

const maxBodyBytes = 1048576 // one megabyte

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// readFields decodes a JSON object or a urlencoded form into raw field
// values. Form values arrive as strings.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to read form: %w", err)
		}
		fields := make(map[string]any, len(r.PostForm))
		for key := range r.PostForm {
			fields[key] = r.PostForm.Get(key)
		}
		return fields, nil
	}

	var fields map[string]any
	if err := readJSON(w, r, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// productID parses the {id} route parameter. Anything that is not a
// positive integer cannot name a product.
func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// serverError logs err and answers 500. The error text reaches the client
// only in development.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.Error(msg,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)

	resp := respond.ErrorResponse{Error: msg}
	if s.development {
		resp.Message = err.Error()
	}
	_ = respond.JSON(w, http.StatusInternalServerError, resp)
}
