// Package generator renders endpoint templates as Go source: a path constant
// for every endpoint without placeholders and a formatting function for every
// other one.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig/v3"
	"github.com/bruno-anjos/endpoint-registry/internal/endpoints"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPackage = "endpoints"

	generatedHeader = "// Code generated by endpoints-cli. DO NOT EDIT."
)

var ErrInvalidPackage = errors.New("invalid package name")

const sourceTemplate = `{{ .Header }}

package {{ .Package }}
{{ if or .NeedsFmt .NeedsURL }}
import (
{{- if .NeedsFmt }}
	"fmt"
{{- end }}
{{- if .NeedsURL }}
	"net/url"
{{- end }}
)
{{ end }}
{{- range .Endpoints }}
{{ range .Doc }}//{{ if . }} {{ . }}{{ end }}
{{ end -}}
{{ if .Query -}}
func {{ .GoName }}(query url.Values{{ if .Params }}, {{ join ", " .Params }} string{{ end }}) string {
	path := {{ if .Params }}fmt.Sprintf({{ quote .Format }}, {{ join ", " .Params }}){{ else }}{{ quote .URL }}{{ end }}
	if len(query) == 0 {
		return path
	}

	return path + "?" + query.Encode()
}
{{ else if .Params -}}
func {{ .GoName }}({{ join ", " .Params }} string) string {
	return fmt.Sprintf({{ quote .Format }}, {{ join ", " .Params }})
}
{{ else -}}
const {{ .GoName }} = {{ quote .URL }}
{{ end -}}
{{ end -}}
`

var source = template.Must(template.New("endpoints").Funcs(sprig.TxtFuncMap()).Parse(sourceTemplate))

type file struct {
	Header    string
	Package   string
	NeedsFmt  bool
	NeedsURL  bool
	Endpoints []endpoint
}

type endpoint struct {
	GoName string
	URL    string
	Format string
	Params []string
	Query  bool
	Doc    []string
}

// Generate writes the Go source for templates into w, in the given package.
func Generate(w io.Writer, pkg string, templates []*endpoints.Template) error {
	if pkg == "" {
		pkg = DefaultPackage
	}

	if !token.IsIdentifier(pkg) {
		return errors.Wrap(ErrInvalidPackage, pkg)
	}

	f := file{
		Header:    generatedHeader,
		Package:   pkg,
		NeedsFmt:  false,
		Endpoints: make([]endpoint, 0, len(templates)),
	}

	names := map[string]string{}

	for _, t := range templates {
		e := toEndpoint(t)

		if other, ok := names[e.GoName]; ok {
			return errors.Errorf("%s and %s both generate %s", other, t.Name, e.GoName)
		}

		names[e.GoName] = t.Name

		if len(e.Params) > 0 {
			f.NeedsFmt = true
		}

		if e.Query {
			f.NeedsURL = true
		}

		f.Endpoints = append(f.Endpoints, e)
	}

	var buf bytes.Buffer
	if err := source.Execute(&buf, f); err != nil {
		return errors.Wrap(err, "rendering endpoints")
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "formatting generated source")
	}

	log.Debugf("generated %d endpoints in package %s", len(f.Endpoints), pkg)

	_, err = w.Write(formatted)

	return errors.WithStack(err)
}

func toEndpoint(t *endpoints.Template) endpoint {
	e := endpoint{
		GoName: endpoints.GoName(t.Name, true),
		URL:    t.URL,
		Format: t.Format,
		Params: paramNames(t.Placeholders),
		Query:  t.QueryParams,
	}

	if !t.IsConstant() {
		e.Doc = append(e.Doc, fmt.Sprintf("%s returns the path of %s.", e.GoName, t.Name))
	} else {
		e.Doc = append(e.Doc, fmt.Sprintf("%s is the path of %s.", e.GoName, t.Name))
	}

	for _, line := range docLines(t) {
		e.Doc = append(e.Doc, "")
		e.Doc = append(e.Doc, commentLines(line)...)
	}

	return e
}

func docLines(t *endpoints.Template) []string {
	lines := []string{"Method: " + string(t.Method)}

	if t.Flags.MFA {
		lines = append(lines, "Valid MFA code is required for some actions")
	}

	if t.Flags.SupportsAuditReason {
		lines = append(lines, "Supports the X-Audit-Log-Reason header")
	}

	if t.Flags.Unauthenticated {
		lines = append(lines, "Does not require authentication")
	}

	if t.Flags.SupportsOAuth2 {
		if t.Flags.OAuth2Scope != "" {
			lines = append(lines, fmt.Sprintf("Supports OAuth2 for authentication with the %s scope",
				t.Flags.OAuth2Scope))
		} else {
			lines = append(lines, "Supports OAuth2 for authentication")
		}
	}

	for _, line := range t.Description {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if t.Flags.Deprecated {
		lines = append(lines, fmt.Sprintf("Deprecated: %s is deprecated.", t.Name))
	}

	return lines
}

// commentLines splits text into lines that are safe inside a // comment.
func commentLines(text string) []string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}

			return r
		}, line))
	}

	return lines
}

var reservedParams = map[string]bool{
	"fmt":   true,
	"path":  true,
	"query": true,
	"url":   true,
}

func paramNames(placeholders []string) []string {
	if len(placeholders) == 0 {
		return nil
	}

	params := make([]string, 0, len(placeholders))

	for i, p := range placeholders {
		name := endpoints.GoName(p, false)

		switch {
		case name == "":
			name = "arg" + strconv.Itoa(i)
		case token.IsKeyword(name) || reservedParams[name]:
			name += "Value"
		}

		params = append(params, name)
	}

	return params
}
