package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/joescharf/prr/internal/form"
	"github.com/joescharf/prr/internal/models"
)

const (
	maxJSONBody   = 1 << 20
	maxFieldValue = 64 << 10
)

// decodeSubmission reads a submission from a JSON body, a urlencoded form or
// a multipart form. For multipart posts only uploaded file names are kept; file
// contents are skipped without being buffered.
func decodeSubmission(r *http.Request) (*models.ReviewSubmission, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("invalid content type")
	}

	switch mediaType {
	case "application/json":
		var sub models.ReviewSubmission
		dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
		if err := dec.Decode(&sub); err != nil {
			return nil, fmt.Errorf("invalid JSON")
		}
		form.Normalize(&sub)
		return &sub, nil

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body")
		}
		return form.FromValues(r.PostForm, nil), nil

	case "multipart/form-data":
		values, files, err := readMultipart(multipart.NewReader(r.Body, params["boundary"]))
		if err != nil {
			return nil, err
		}
		return form.FromValues(values, files), nil

	default:
		return nil, fmt.Errorf("unsupported content type: %s", mediaType)
	}
}

func readMultipart(mr *multipart.Reader) (url.Values, map[string][]*multipart.FileHeader, error) {
	values := url.Values{}
	files := map[string][]*multipart.FileHeader{}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return values, files, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("invalid multipart body")
		}

		name := part.FormName()
		if name == "" {
			continue
		}

		if isFilePart(part) {
			files[name] = append(files[name], &multipart.FileHeader{Filename: part.FileName()})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxFieldValue))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid multipart body")
		}
		values.Add(name, string(data))
	}
}

// isFilePart reports whether the part came from a file input, including an
// empty one (which browsers send with filename="").
func isFilePart(p *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}
