package cookie

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const (
	// DefaultAppCookie is the default name of the application cookie.
	DefaultAppCookie = "kac"
	// appCookieMaxAge keeps the application cookie for one year.
	appCookieMaxAge = 365 * 24 * 60 * 60

	pairSeparator  = "@@"
	valueSeparator = "::"
)

// Jar stores several small key/value pairs inside a single long-lived
// application cookie, encoded as "k1::v1@@k2::v2". Keys and values are
// query-escaped so any string survives the cookie value charset.
type Jar struct {
	manager *Manager
	name    string
}

// NewJar creates a Jar backed by manager. An empty name uses DefaultAppCookie.
func NewJar(manager *Manager, name string) *Jar {
	if name == "" {
		name = DefaultAppCookie
	}
	return &Jar{manager: manager, name: name}
}

// Name returns the application cookie name.
func (j *Jar) Name() string {
	return j.name
}

// Get returns the value stored under key.
func (j *Jar) Get(w http.ResponseWriter, r *http.Request, key string) (string, error) {
	values := j.read(w, r)
	v, ok := values[key]
	if !ok {
		return "", ErrJarKeyNotFound
	}
	return v, nil
}

// Set stores value under key and rewrites the application cookie.
func (j *Jar) Set(w http.ResponseWriter, r *http.Request, key, value string) error {
	if key == "" || strings.Contains(key, valueSeparator) || strings.Contains(key, pairSeparator) ||
		strings.Contains(value, valueSeparator) || strings.Contains(value, pairSeparator) {
		return ErrInvalidJarValue
	}

	values := j.read(w, r)
	values[key] = value
	return j.write(w, values)
}

// Remove deletes key from the application cookie and returns its value.
func (j *Jar) Remove(w http.ResponseWriter, r *http.Request, key string) (string, error) {
	values := j.read(w, r)
	v, ok := values[key]
	if !ok {
		return "", ErrJarKeyNotFound
	}
	delete(values, key)
	if len(values) == 0 {
		j.manager.Delete(w, j.name)
		return v, nil
	}
	return v, j.write(w, values)
}

// read decodes the application cookie, preferring a value already written
// during this response over the one sent by the client.
func (j *Jar) read(w http.ResponseWriter, r *http.Request) map[string]string {
	raw := ""
	if c, ok := pending(w, j.name); ok {
		if c.MaxAge < 0 {
			return map[string]string{}
		}
		raw = c.Value
	} else if v, err := j.manager.Get(r, j.name); err == nil {
		raw = v
	}
	return decodeJar(raw)
}

func (j *Jar) write(w http.ResponseWriter, values map[string]string) error {
	return j.manager.Set(w, j.name, encodeJar(values), WithMaxAge(appCookieMaxAge), WithPath("/"))
}

func decodeJar(raw string) map[string]string {
	values := make(map[string]string)
	if raw == "" {
		return values
	}
	for _, entry := range strings.Split(raw, pairSeparator) {
		pair := strings.Split(entry, valueSeparator)
		if len(pair) != 2 || pair[0] == "" {
			continue
		}
		k, err := url.QueryUnescape(pair[0])
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(pair[1])
		if err != nil {
			continue
		}
		values[k] = v
	}
	return values
}

func encodeJar(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, url.QueryEscape(k)+valueSeparator+url.QueryEscape(values[k]))
	}
	return strings.Join(entries, pairSeparator)
}
