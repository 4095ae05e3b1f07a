package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/bruno-anjos/endpoint-registry/internal/utils"
	"github.com/pkg/errors"
)

type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPatch  Method = http.MethodPatch
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPatch, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// Flags are the documented properties of a route.
type Flags struct {
	SupportsAuditReason bool   `json:"supports_audit_reason,omitempty"`
	Unauthenticated     bool   `json:"unauthenticated,omitempty"`
	MFA                 bool   `json:"mfa,omitempty"`
	SupportsOAuth2      bool   `json:"supports_oauth2,omitempty"`
	OAuth2Scope         string `json:"oauth2_scope,omitempty"`
	Deprecated          bool   `json:"deprecated,omitempty"`
}

// Template is a named endpoint. Without placeholders or query parameters it
// is a constant path, otherwise Format holds one %s per placeholder, in order.
type Template struct {
	Name         string   `json:"name"`
	Method       Method   `json:"method"`
	URL          string   `json:"url"`
	Format       string   `json:"-"`
	Placeholders []string `json:"placeholders,omitempty"`
	QueryParams  bool     `json:"query_params,omitempty"`
	Description  []string `json:"description,omitempty"`
	Flags        Flags    `json:"flags"`
}

type Option func(t *Template)

// WithQueryParams marks the endpoint as taking a query string.
func WithQueryParams() Option {
	return func(t *Template) {
		t.QueryParams = true
	}
}

// WithDescription sets the description; multi-line values are split into lines.
func WithDescription(lines ...string) Option {
	return func(t *Template) {
		for _, line := range lines {
			t.Description = append(t.Description, strings.Split(strings.TrimRight(line, "\n"), "\n")...)
		}
	}
}

var placeholderRegex = regexp.MustCompile(`{((?:\w|\.)+)}`)

func ParseTemplate(name string, method Method, path string, flags Flags, opts ...Option) (*Template, error) {
	name = EndpointName(name)
	if name == "" {
		return nil, errors.Wrap(ErrInvalidEndpoint, "empty name")
	}

	method = Method(strings.ToUpper(string(method)))
	if !method.Valid() {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%s: unsupported method %q", name, method)
	}

	if strings.IndexFunc(flags.OAuth2Scope, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%s: invalid oauth2 scope %q", name, flags.OAuth2Scope)
	}

	if flags.OAuth2Scope != "" {
		flags.SupportsOAuth2 = true
	}

	var placeholders []string

	format := placeholderRegex.ReplaceAllStringFunc(strings.ReplaceAll(path, "%", "%%"),
		func(match string) string {
			placeholders = append(placeholders, PlaceholderName(match[1:len(match)-1]))
			return "%s"
		})

	seen := map[string]bool{}

	for _, p := range placeholders {
		if seen[p] || seen[muxVarName(p)] {
			return nil, errors.Wrapf(ErrInvalidEndpoint, "%s: placeholder %s used twice", name, p)
		}

		seen[p] = true
		seen[muxVarName(p)] = true
	}

	t := &Template{
		Name:         name,
		Method:       method,
		URL:          path,
		Format:       format,
		Placeholders: placeholders,
		Flags:        flags,
	}

	for _, opt := range opts {
		opt(t)
	}

	for _, line := range t.Description {
		if strings.ContainsAny(line, "\r\n") {
			return nil, errors.Wrapf(ErrInvalidEndpoint, "%s: description line %q spans lines", name, line)
		}
	}

	return t, nil
}

func MustParseTemplate(name string, method Method, path string, flags Flags, opts ...Option) *Template {
	t, err := ParseTemplate(name, method, path, flags, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

func (t *Template) IsParameterized() bool {
	return len(t.Placeholders) > 0
}

// IsConstant reports whether the endpoint has a single fixed path.
func (t *Template) IsConstant() bool {
	return !t.IsParameterized() && !t.QueryParams
}

// Expand substitutes args into the template, in placeholder order. Values
// are inserted as given, without validation or escaping.
func (t *Template) Expand(args ...string) (string, error) {
	return t.ExpandQuery(nil, args...)
}

// ExpandQuery is Expand followed by the encoded query, if the endpoint takes
// one and query is not empty.
func (t *Template) ExpandQuery(query url.Values, args ...string) (string, error) {
	if len(args) != len(t.Placeholders) {
		return "", errors.Wrapf(ErrArgumentCount, "%s takes %d, got %d", t.Name, len(t.Placeholders), len(args))
	}

	if len(query) > 0 && !t.QueryParams {
		return "", errors.Wrapf(ErrInvalidEndpoint, "%s takes no query parameters", t.Name)
	}

	path := t.URL

	if t.IsParameterized() {
		values := make([]interface{}, len(args))
		for i, arg := range args {
			values[i] = arg
		}

		path = fmt.Sprintf(t.Format, values...)
	}

	if len(query) == 0 {
		return path, nil
	}

	return path + "?" + query.Encode(), nil
}

// MuxPattern returns the path with each placeholder as a gorilla/mux variable.
func (t *Template) MuxPattern() string {
	if !t.IsParameterized() {
		return t.URL
	}

	vars := make([]interface{}, len(t.Placeholders))
	for i, p := range t.Placeholders {
		vars[i] = fmt.Sprintf(utils.PathVarFormat, muxVarName(p))
	}

	return fmt.Sprintf(t.Format, vars...)
}
