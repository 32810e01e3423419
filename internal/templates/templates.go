// Package templates provides embedded starter configurations for prodguard.
package templates

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/prodguard/prodguard/internal/config"
)

//go:embed *.yaml
var templatesFS embed.FS

// Template represents a named starter configuration.
type Template struct {
	Name        string
	Description string
}

var templateDescriptions = map[string]string{
	"web-service": "Typical web stack: app under /srv, nginx config, ports 80/443",
	"database":    "Database hosts: postgres/mysql data dirs, ports, process keywords",
	"docker-host": "Container hosts: compose checkout under /opt, common service ports",
}

// List returns all available template names sorted alphabetically.
func List() []Template {
	entries, err := templatesFS.ReadDir(".")
	if err != nil {
		return nil
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		desc := templateDescriptions[name]
		if desc == "" {
			desc = "No description available"
		}
		templates = append(templates, Template{Name: name, Description: desc})
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates
}

// Raw returns the raw YAML for a template, suitable for writing to the
// user's config path.
func Raw(name string) ([]byte, error) {
	data, err := templatesFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return data, nil
}

// Load parses a template by name into a config.
func Load(name string) (*config.Config, error) {
	data, err := Raw(name)
	if err != nil {
		return nil, err
	}
	return config.Parse(data, name+".yaml")
}
