package endpoints

import (
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefinitionsFile is the YAML layout of an endpoint definitions file:
//
//	endpoints:
//	  - name: Get Application Assets
//	    method: GET
//	    url: /oauth2/applications/{application.id}/assets
//	    description: Returns the assets of an application.
//	    flags:
//	      unauthenticated: true
//	      oauth2: applications.commands
//	  - name: Get Guild Members
//	    url: /guilds/{guild.id}/members
//	    query: true
type DefinitionsFile struct {
	Endpoints []map[string]interface{} `yaml:"endpoints"`
}

type definition struct {
	Name        string          `mapstructure:"name"`
	Method      string          `mapstructure:"method"`
	URL         string          `mapstructure:"url"`
	Query       bool            `mapstructure:"query"`
	Description []string        `mapstructure:"description"`
	Flags       definitionFlags `mapstructure:"flags"`
}

type definitionFlags struct {
	MFA             bool          `mapstructure:"mfa"`
	AuditReason     bool          `mapstructure:"audit_reason"`
	Unauthenticated bool          `mapstructure:"unauthenticated"`
	OAuth2          oauth2Support `mapstructure:"oauth2"`
	Deprecated      bool          `mapstructure:"deprecated"`
}

// oauth2Support is written either as a boolean or as the required scope.
type oauth2Support struct {
	Enabled bool
	Scope   string
}

func decodeOAuth2HookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(oauth2Support{}) {
			return data, nil
		}

		switch value := data.(type) {
		case bool:
			return oauth2Support{Enabled: value}, nil
		case string:
			return oauth2Support{Enabled: value != "", Scope: value}, nil
		case oauth2Support:
			return value, nil
		default:
			return nil, errors.Errorf("oauth2 must be a boolean or a scope, got %s", from)
		}
	}
}

// decodeDescriptionHookFunc accepts a description as one (possibly
// multi-line) string as well as a list of lines.
func decodeDescriptionHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf([]string{}) {
			return data, nil
		}

		if value, ok := data.(string); ok {
			return strings.Split(strings.TrimRight(value, "\n"), "\n"), nil
		}

		return data, nil
	}
}

func LoadDefinitions(reader io.Reader) ([]*Template, error) {
	var file DefinitionsFile

	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding definitions")
	}

	templates := make([]*Template, 0, len(file.Endpoints))

	for i, raw := range file.Endpoints {
		t, err := decodeDefinition(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "endpoint %d", i)
		}

		templates = append(templates, t)
	}

	log.Debugf("loaded %d endpoint definitions", len(templates))

	return templates, nil
}

func LoadDefinitionsFile(filename string) ([]*Template, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening definitions")
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn(closeErr)
		}
	}()

	return LoadDefinitions(file)
}

func decodeDefinition(raw map[string]interface{}) (*Template, error) {
	var def definition

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(decodeOAuth2HookFunc(), decodeDescriptionHookFunc()),
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err = decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(ErrInvalidEndpoint, err.Error())
	}

	if def.URL == "" {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "%s: missing url", def.Name)
	}

	if def.Method == "" {
		def.Method = string(MethodGet)
	}

	opts := []Option{WithDescription(def.Description...)}
	if def.Query {
		opts = append(opts, WithQueryParams())
	}

	return ParseTemplate(def.Name, Method(def.Method), def.URL, Flags{
		SupportsAuditReason: def.Flags.AuditReason,
		Unauthenticated:     def.Flags.Unauthenticated,
		MFA:                 def.Flags.MFA,
		SupportsOAuth2:      def.Flags.OAuth2.Enabled,
		OAuth2Scope:         def.Flags.OAuth2.Scope,
		Deprecated:          def.Flags.Deprecated,
	}, opts...)
}
