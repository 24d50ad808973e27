package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// QueryParam is a single query string entry. Order matters, so query
// parameters are kept as a slice rather than a map.
type QueryParam struct {
	Key   string
	Value string
}

// QueryParams is an ordered set of query parameters that decodes from a JSON
// object while preserving the object's key order.
type QueryParams []QueryParam

// UnmarshalJSON decodes a JSON object, keeping keys in document order. A
// repeated key keeps its first position and its last value. Numbers and true
// are kept in their JSON text form; null, false and 0 decode to "".
func (q *QueryParams) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*q = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("queryParams: expected JSON object")
	}

	params := QueryParams{}
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("queryParams %q: %w", key, err)
		}
		value := rawScalar(raw)
		if i, ok := seen[key]; ok {
			params[i].Value = value
			continue
		}
		seen[key] = len(params)
		params = append(params, QueryParam{Key: key, Value: value})
	}

	*q = params
	return nil
}

func rawScalar(raw json.RawMessage) string {
	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if v.Num == 0 {
			return ""
		}
		return v.Raw
	}
	return strings.TrimSpace(string(raw))
}

type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        []byte
	QueryParams QueryParams
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

// BuildURL resolves the request URL and appends the query parameters to any
// query string already present. Keys and values are trimmed; entries left
// with an empty key or value are skipped.
func (r *Request) BuildURL() (string, error) {
	u, err := ParseURL(r.URL)
	if err != nil {
		return "", err
	}

	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	if len(r.QueryParams) == 0 {
		return u.String(), nil
	}

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for _, p := range r.QueryParams {
		key := strings.TrimSpace(p.Key)
		value := strings.TrimSpace(p.Value)
		if key == "" || value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	u.RawQuery = b.String()

	return u.String(), nil
}
