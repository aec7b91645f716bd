package formdata

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBodyBytes caps the request body read by ParseRequest.
const DefaultMaxBodyBytes int64 = 10 << 20

var (
	// ErrUnsupportedContentType is returned for bodies that are neither
	// urlencoded nor multipart.
	ErrUnsupportedContentType = errors.New("formdata: unsupported content type")
	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("formdata: request body too large")
)

// ParseQuery decodes an urlencoded string into ordered entries. Empty
// segments are skipped; a segment without "=" yields an empty value.
func ParseQuery(raw string) (Entries, error) {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return Entries{}, nil
	}
	segments := strings.Split(raw, "&")
	out := make(Entries, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("formdata: decode key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("formdata: decode value for %q: %w", key, err)
		}
		out = append(out, Entry{Key: key, Value: value})
	}
	return out, nil
}

// ParseRequest reads the posted fields of r in the order they were sent.
// urlencoded and multipart bodies are supported; file parts contribute their
// file name as the value. A request without a body yields no entries.
func ParseRequest(r *http.Request, maxBytes int64) (Entries, error) {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return Entries{}, nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	contentType := strings.TrimSpace(r.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = "application/x-www-form-urlencoded"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("formdata: parse content type: %w", err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("formdata: read body: %w", err)
		}
		if int64(len(body)) > maxBytes {
			return nil, ErrBodyTooLarge
		}
		return ParseQuery(string(body))
	case "multipart/form-data":
		return parseMultipart(r, params["boundary"], maxBytes)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

func parseMultipart(r *http.Request, boundary string, maxBytes int64) (Entries, error) {
	if boundary == "" {
		return nil, errors.New("formdata: multipart boundary missing")
	}
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("formdata: multipart reader: %w", err)
	}

	out := Entries{}
	remaining := maxBytes
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("formdata: next part: %w", err)
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}
		if filename := part.FileName(); filename != "" {
			out = append(out, Entry{Key: name, Value: filename})
			part.Close()
			continue
		}

		value, err := io.ReadAll(io.LimitReader(part, remaining+1))
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("formdata: read part %q: %w", name, err)
		}
		remaining -= int64(len(value))
		if remaining < 0 {
			return nil, ErrBodyTooLarge
		}
		out = append(out, Entry{Key: name, Value: string(value)})
	}
}
