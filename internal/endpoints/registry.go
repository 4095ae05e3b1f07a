package endpoints

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Registry holds endpoint templates by name. It is safe for concurrent use.
type Registry struct {
	templates map[string]*Template
	order     []string
	router    *mux.Router
	lock      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		templates: map[string]*Template{},
		order:     nil,
		router:    nil,
		lock:      sync.RWMutex{},
	}
}

func (r *Registry) Register(t *Template) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.templates[t.Name]; ok {
		return errors.Wrap(ErrDuplicateEndpoint, t.Name)
	}

	r.templates[t.Name] = t
	r.order = append(r.order, t.Name)
	r.router = nil

	log.Debugf("registered endpoint %s %s %s", t.Name, t.Method, t.URL)

	return nil
}

func (r *Registry) Get(name string) (t *Template, ok bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	t, ok = r.templates[name]

	return
}

// Expand formats the endpoint called name with args.
func (r *Registry) Expand(name string, args ...string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", errors.Wrap(ErrUnknownEndpoint, name)
	}

	return t.Expand(args...)
}

// ExpandQuery formats the endpoint called name with args and query.
func (r *Registry) ExpandQuery(name string, query url.Values, args ...string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", errors.Wrap(ErrUnknownEndpoint, name)
	}

	return t.ExpandQuery(query, args...)
}

// List returns the templates in registration order.
func (r *Registry) List() []*Template {
	r.lock.RLock()
	defer r.lock.RUnlock()

	templates := make([]*Template, 0, len(r.order))
	for _, name := range r.order {
		templates = append(templates, r.templates[name])
	}

	return templates
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.order)
}

// Match finds the endpoint serving method and path and returns the values of
// its placeholders, keyed by placeholder name.
func (r *Registry) Match(method, path string) (*Template, map[string]string, error) {
	router, err := r.getRouter()
	if err != nil {
		return nil, nil, err
	}

	req := &http.Request{
		Method: method,
		URL:    &url.URL{Path: path},
	}

	var match mux.RouteMatch
	if !router.Match(req, &match) {
		if errors.Is(match.MatchErr, mux.ErrMethodMismatch) {
			return nil, nil, errors.Wrapf(ErrMethodMismatch, "%s %s", method, path)
		}

		return nil, nil, errors.Wrapf(ErrNoMatch, "%s %s", method, path)
	}

	t, ok := r.Get(match.Route.GetName())
	if !ok {
		return nil, nil, errors.Wrap(ErrUnknownEndpoint, match.Route.GetName())
	}

	vars := make(map[string]string, len(t.Placeholders))
	for _, p := range t.Placeholders {
		vars[p] = match.Vars[muxVarName(p)]
	}

	return t, vars, nil
}

func (r *Registry) getRouter() (*mux.Router, error) {
	r.lock.RLock()
	router := r.router
	r.lock.RUnlock()

	if router != nil {
		return router, nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.router != nil {
		return r.router, nil
	}

	router = mux.NewRouter().SkipClean(true)

	for _, name := range r.order {
		t := r.templates[name]

		route := router.NewRoute().Name(t.Name).Methods(string(t.Method)).Path(t.MuxPattern())
		if err := route.GetError(); err != nil {
			return nil, errors.Wrapf(err, "building route for %s", t.Name)
		}
	}

	r.router = router

	return router, nil
}
