package endpoints

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	for _, uc := range []struct {
		uc     string
		name   string
		method Method
		url    string
		flags  Flags
		opts   []Option
		assert func(t *testing.T, tpl *Template)
		err    error
	}{
		{
			uc:     "constant path",
			name:   "GET_APPLICATIONS",
			method: MethodGet,
			url:    "/applications",
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.Equal(t, "GET_APPLICATIONS", tpl.Name)
				assert.False(t, tpl.IsParameterized())
				assert.Empty(t, tpl.Placeholders)
			},
		},
		{
			uc:     "documented title and lower case method",
			name:   "Get Application Assets",
			method: "get",
			url:    "/oauth2/applications/{application.id}/assets",
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.Equal(t, "GET_APPLICATION_ASSETS", tpl.Name)
				assert.Equal(t, MethodGet, tpl.Method)
				assert.Equal(t, "/oauth2/applications/%s/assets", tpl.Format)
				assert.Equal(t, []string{"application_id"}, tpl.Placeholders)
			},
		},
		{
			uc:     "several placeholders keep their order",
			name:   "DELETE_GUILD_MEMBER_ROLE",
			method: MethodDelete,
			url:    "/guilds/{guild.id}/members/{user.id}/roles/{role.id}",
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.Equal(t, []string{"guild_id", "user_id", "role_id"}, tpl.Placeholders)
				assert.Equal(t, "/guilds/%s/members/%s/roles/%s", tpl.Format)
			},
		},
		{
			uc:     "scope implies oauth2 support",
			name:   "GET_CURRENT_USER_GUILDS",
			method: MethodGet,
			url:    "/users/@me/guilds",
			flags:  Flags{OAuth2Scope: "guilds"},
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.True(t, tpl.Flags.SupportsOAuth2)
				assert.Equal(t, "guilds", tpl.Flags.OAuth2Scope)
			},
		},
		{
			uc:     "query parameters and description",
			name:   "GET_GUILD_MEMBERS",
			method: MethodGet,
			url:    "/guilds/{guild.id}/members",
			opts:   []Option{WithQueryParams(), WithDescription("Returns members.\nPaginated.", "Needs an intent.")},
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.True(t, tpl.QueryParams)
				assert.False(t, tpl.IsConstant())
				assert.Equal(t, []string{"Returns members.", "Paginated.", "Needs an intent."}, tpl.Description)
			},
		},
		{
			uc:     "query parameters without placeholders are not constant",
			name:   "SEARCH_DISCOVERABLE_GUILDS",
			method: MethodGet,
			url:    "/discoverable-guilds",
			opts:   []Option{WithQueryParams()},
			assert: func(t *testing.T, tpl *Template) {
				t.Helper()

				assert.False(t, tpl.IsParameterized())
				assert.False(t, tpl.IsConstant())
			},
		},
		{
			uc:     "scope spanning lines",
			name:   "GET_GATEWAY",
			method: MethodGet,
			url:    "/gateway",
			flags:  Flags{OAuth2Scope: "x\nvar Injected = 1\n//"},
			err:    ErrInvalidEndpoint,
		},
		{
			uc:     "scope with spaces",
			name:   "GET_GATEWAY",
			method: MethodGet,
			url:    "/gateway",
			flags:  Flags{OAuth2Scope: "guilds identify"},
			err:    ErrInvalidEndpoint,
		},
		{
			uc:     "repeated placeholder",
			name:   "GET_STICKER_PACK",
			method: MethodGet,
			url:    "/sticker-packs/{type}/{type}",
			err:    ErrInvalidEndpoint,
		},
		{
			uc:     "placeholders with the same snake case name",
			name:   "GET_APPLICATION",
			method: MethodGet,
			url:    "/applications/{application.id}/{application_id}",
			err:    ErrInvalidEndpoint,
		},
		{
			uc:     "empty name",
			name:   "  ",
			method: MethodGet,
			url:    "/applications",
			err:    ErrInvalidEndpoint,
		},
		{
			uc:     "unsupported method",
			name:   "GET_APPLICATIONS",
			method: "HEAD",
			url:    "/applications",
			err:    ErrInvalidEndpoint,
		},
	} {
		t.Run(uc.uc, func(t *testing.T) {
			// WHEN
			tpl, err := ParseTemplate(uc.name, uc.method, uc.url, uc.flags, uc.opts...)

			// THEN
			if uc.err != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, uc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, uc.url, tpl.URL)
			uc.assert(t, tpl)
		})
	}
}

func TestTemplateExpand(t *testing.T) {
	t.Parallel()

	assets := MustParseTemplate("GET_APPLICATION_ASSETS", MethodGet,
		"/oauth2/applications/{application.id}/assets", Flags{})
	role := MustParseTemplate("ADD_GUILD_MEMBER_ROLE", MethodPut,
		"/guilds/{guild.id}/members/{user.id}/roles/{role.id}", Flags{})
	percent := MustParseTemplate("GET_ODD", MethodGet, "/odd%20path/{thing.id}", Flags{})
	constant := MustParseTemplate("GET_APPLICATIONS", MethodGet, "/applications", Flags{})

	for _, uc := range []struct {
		uc       string
		tpl      *Template
		args     []string
		expected string
		err      error
	}{
		{uc: "single placeholder", tpl: assets, args: []string{"42"}, expected: "/oauth2/applications/42/assets"},
		{uc: "empty value", tpl: assets, args: []string{""}, expected: "/oauth2/applications//assets"},
		{uc: "value is not escaped", tpl: assets, args: []string{"../x?y"}, expected: "/oauth2/applications/../x?y/assets"},
		{uc: "format verbs in value", tpl: assets, args: []string{"%d%%"}, expected: "/oauth2/applications/%d%%/assets"},
		{uc: "ordered placeholders", tpl: role, args: []string{"1", "2", "3"}, expected: "/guilds/1/members/2/roles/3"},
		{uc: "literal percent in url", tpl: percent, args: []string{"7"}, expected: "/odd%20path/7"},
		{uc: "constant", tpl: constant, expected: "/applications"},
		{uc: "too few", tpl: assets, err: ErrArgumentCount},
		{uc: "too many", tpl: assets, args: []string{"1", "2"}, err: ErrArgumentCount},
		{uc: "arguments for a constant", tpl: constant, args: []string{"1"}, err: ErrArgumentCount},
	} {
		t.Run(uc.uc, func(t *testing.T) {
			// WHEN
			path, err := uc.tpl.Expand(uc.args...)

			// THEN
			if uc.err != nil {
				assert.ErrorIs(t, err, uc.err)
				assert.Empty(t, path)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, uc.expected, path)
		})
	}
}

func TestTemplateExpandQuery(t *testing.T) {
	t.Parallel()

	members := MustParseTemplate("GET_GUILD_MEMBERS", MethodGet, "/guilds/{guild.id}/members", Flags{},
		WithQueryParams())
	search := MustParseTemplate("SEARCH_DISCOVERABLE_GUILDS", MethodGet, "/discoverable-guilds", Flags{},
		WithQueryParams())
	assets := MustParseTemplate("GET_APPLICATION_ASSETS", MethodGet,
		"/oauth2/applications/{application.id}/assets", Flags{})

	for _, uc := range []struct {
		uc       string
		tpl      *Template
		query    url.Values
		args     []string
		expected string
		err      error
	}{
		{
			uc:       "encoded query",
			tpl:      members,
			query:    url.Values{"limit": {"10"}, "after": {"a b"}},
			args:     []string{"1"},
			expected: "/guilds/1/members?after=a+b&limit=10",
		},
		{uc: "empty query", tpl: members, args: []string{"1"}, expected: "/guilds/1/members"},
		{
			uc:       "no placeholders",
			tpl:      search,
			query:    url.Values{"offset": {"5"}},
			expected: "/discoverable-guilds?offset=5",
		},
		{
			uc:    "query for an endpoint without one",
			tpl:   assets,
			query: url.Values{"a": {"1"}},
			args:  []string{"1"},
			err:   ErrInvalidEndpoint,
		},
		{uc: "argument count still checked", tpl: members, query: url.Values{"a": {"1"}}, err: ErrArgumentCount},
	} {
		t.Run(uc.uc, func(t *testing.T) {
			// WHEN
			path, err := uc.tpl.ExpandQuery(uc.query, uc.args...)

			// THEN
			if uc.err != nil {
				assert.ErrorIs(t, err, uc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, uc.expected, path)
		})
	}
}

func TestTemplateMuxPattern(t *testing.T) {
	t.Parallel()

	tpl := MustParseTemplate("GET_GUILD_MEMBER", MethodGet, "/guilds/{guild.id}/members/{user.id}", Flags{})

	assert.Equal(t, "/guilds/{guildId}/members/{userId}", tpl.MuxPattern())
	assert.Equal(t, "/applications",
		MustParseTemplate("GET_APPLICATIONS", MethodGet, "/applications", Flags{}).MuxPattern())
}

func TestMustParseTemplatePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustParseTemplate("", MethodGet, "/applications", Flags{})
	})
}

func TestGoName(t *testing.T) {
	t.Parallel()

	for _, uc := range []struct {
		name     string
		exported bool
		expected string
	}{
		{name: "GET_APPLICATION_ASSETS", exported: true, expected: "GetApplicationAssets"},
		{name: "GET_APPLICATIONS", exported: true, expected: "GetApplications"},
		{name: "application_id", exported: false, expected: "applicationID"},
		{name: "id", exported: false, expected: "id"},
		{name: "GET_OAUTH_URL", exported: true, expected: "GetOAuthURL"},
	} {
		assert.Equal(t, uc.expected, GoName(uc.name, uc.exported), uc.name)
	}
}

func TestPlaceholderName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application_id", PlaceholderName("application.id"))
	assert.Equal(t, "application_id", PlaceholderName("applicationId"))
	assert.Equal(t, "code", PlaceholderName("code"))
}
