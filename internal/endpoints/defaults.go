package endpoints

import (
	"github.com/bruno-anjos/endpoint-registry/api/applications"
)

func defaultTemplates() []*Template {
	return []*Template{
		MustParseTemplate(applications.GetApplicationsName, MethodGet, applications.ApplicationsURL, Flags{}),
		MustParseTemplate(applications.GetApplicationAssetsName, MethodGet, applications.ApplicationAssetsURL,
			Flags{Unauthenticated: true}),
	}
}

// Default returns a new registry with the built-in endpoints.
func Default() *Registry {
	r, err := NewRegistryFromTemplates(defaultTemplates())
	if err != nil {
		panic(err)
	}

	return r
}

func NewRegistryFromTemplates(templates []*Template) (*Registry, error) {
	r := NewRegistry()

	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}

	return r, nil
}
