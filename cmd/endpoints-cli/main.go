package main

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/bruno-anjos/endpoint-registry/internal/endpoints"
	"github.com/bruno-anjos/endpoint-registry/internal/generator"
	"github.com/bruno-anjos/endpoint-registry/pkg/utils"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	debugFlagName       = "debug"
	definitionsFlagName = "definitions"
	jsonFlagName        = "json"
	packageFlagName     = "package"
	outFlagName         = "out"
	queryFlagName       = "query"
)

func main() {
	err := newApp(os.Stdout).Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "endpoints-cli",
		Usage:     "list, format, match and generate API endpoint paths",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlagName,
				Aliases: []string{"d"},
				Usage:   "add debug logs",
				EnvVars: []string{utils.DebugEnvVarName},
			},
			&cli.StringFlag{
				Name:    definitionsFlagName,
				Usage:   "YAML endpoint definitions, built-in endpoints if empty",
				EnvVars: []string{utils.DefinitionsEnvVarName},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlagName) {
				log.SetLevel(log.DebugLevel)
			}

			log.Debug("starting log in debug mode")

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list the registered endpoints",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: jsonFlagName, Usage: "print as JSON"},
				},
				Action: listEndpoints,
			},
			{
				Name:      "format",
				Aliases:   []string{"f"},
				Usage:     "print the path of an endpoint",
				ArgsUsage: "endpoint_name [args...]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    queryFlagName,
						Aliases: []string{"q"},
						Usage:   "query parameter as key=value, repeatable",
					},
				},
				Action: formatEndpoint,
			},
			{
				Name:      "match",
				Aliases:   []string{"m"},
				Usage:     "find the endpoint serving a request",
				ArgsUsage: "method path",
				Action:    matchEndpoint,
			},
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generate Go source for the endpoints",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    packageFlagName,
						Value:   generator.DefaultPackage,
						Usage:   "package of the generated file",
						EnvVars: []string{utils.PackageEnvVarName},
					},
					&cli.StringFlag{
						Name:    outFlagName,
						Aliases: []string{"o"},
						Usage:   "output file, stdout if empty",
					},
				},
				Action: generateEndpoints,
			},
		},
	}
}

func loadRegistry(c *cli.Context) (*endpoints.Registry, error) {
	filename := c.String(definitionsFlagName)
	if filename == "" {
		return endpoints.Default(), nil
	}

	log.Debugf("loading definitions from %s", filename)

	templates, err := endpoints.LoadDefinitionsFile(filename)
	if err != nil {
		return nil, err
	}

	return endpoints.NewRegistryFromTemplates(templates)
}

func listEndpoints(c *cli.Context) error {
	registry, err := loadRegistry(c)
	if err != nil {
		return err
	}

	templates := registry.List()

	if c.Bool(jsonFlagName) {
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")

		return errors.WithStack(encoder.Encode(templates))
	}

	for _, t := range templates {
		_, err = fmt.Fprintf(c.App.Writer, "%-40s %-6s %s\n", t.Name, t.Method, t.URL)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func formatEndpoint(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return errors.New("usage: format endpoint_name [args...]")
	}

	registry, err := loadRegistry(c)
	if err != nil {
		return err
	}

	query, err := parseQuery(c.StringSlice(queryFlagName))
	if err != nil {
		return err
	}

	name := endpoints.EndpointName(c.Args().First())

	path, err := registry.ExpandQuery(name, query, c.Args().Tail()...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, path)

	return errors.WithStack(err)
}

func parseQuery(pairs []string) (url.Values, error) {
	query := url.Values{}

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, errors.Errorf("query parameter %q is not key=value", pair)
		}

		query.Add(kv[0], kv[1])
	}

	return query, nil
}

func matchEndpoint(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("usage: match method path")
	}

	registry, err := loadRegistry(c)
	if err != nil {
		return err
	}

	t, vars, err := registry.Match(strings.ToUpper(c.Args().First()), c.Args().Get(1))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, t.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_, err = fmt.Fprintf(c.App.Writer, "%s=%s\n", key, vars[key])
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func generateEndpoints(c *cli.Context) error {
	registry, err := loadRegistry(c)
	if err != nil {
		return err
	}

	filename := c.String(outFlagName)
	if filename == "" {
		return generator.Generate(c.App.Writer, c.String(packageFlagName), registry.List())
	}

	var buf bytes.Buffer

	err = generator.Generate(&buf, c.String(packageFlagName), registry.List())
	if err != nil {
		return err
	}

	err = os.WriteFile(filename, buf.Bytes(), 0o644)
	if err != nil {
		return errors.Wrap(err, "writing output file")
	}

	log.Infof("wrote %d endpoints to %s", registry.Len(), filename)

	return nil
}
