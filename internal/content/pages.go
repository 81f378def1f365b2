// Package content holds the registry of static informational pages.
// The set of valid slugs is data, not routes: unknown slugs 404.
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var pagesYAML []byte

type Page struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Section struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Pages       []Page `yaml:"pages"`
}

type registryFile struct {
	Sections map[string]Section `yaml:"sections"`
}

type Registry struct {
	sections map[string]Section
}

// Load parses the embedded page registry.
func Load() (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(pagesYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing page registry: %w", err)
	}

	for name, section := range file.Sections {
		for i, page := range section.Pages {
			if page.Slug == "" || page.Title == "" {
				return nil, fmt.Errorf("section %s page %d: slug and title are required", name, i)
			}
			if page.Description == "" {
				section.Pages[i].Description = "Information om " + strings.ToLower(page.Title)
			}
		}
	}

	return &Registry{sections: file.Sections}, nil
}

// Section returns the section metadata and its pages.
func (r *Registry) Section(name string) (Section, bool) {
	section, ok := r.sections[name]
	return section, ok
}

// Page looks up a single page by section and slug.
func (r *Registry) Page(sectionName, slug string) (Page, bool) {
	section, ok := r.sections[sectionName]
	if !ok {
		return Page{}, false
	}
	for _, page := range section.Pages {
		if page.Slug == slug {
			return page, true
		}
	}
	return Page{}, false
}
