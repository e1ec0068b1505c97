// Package template loads and renders questionnaire templates: YAML
// files describing a questionnaire with {{ }} placeholders, filled in
// with per-invocation data before submission to the API. Templates are
// looked up across a chain of directories; embedded defaults sit
// behind the whole chain.
package template

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/trainhub/trainctl/pkg/models"
)

//go:embed defaults/*.yaml
var defaultTemplates embed.FS

// Resolver locates template files on disk. Each non-empty directory is
// searched in field order, so an explicit flag shadows the project
// directory, which shadows the configured and per-user ones.
type Resolver struct {
	ExplicitDir string // --templates-dir flag
	LocalDir    string // ./.trainctl/templates
	ConfigDir   string // templates_dir from the config file
	UserDir     string // ~/.trainctl/templates
}

// TemplateInfo describes one available template and where it came from.
type TemplateInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Source string `json:"source"` // explicit, local, config, user or builtin
}

// NewResolver builds the standard lookup chain. configDir and
// explicitDir may be empty, in which case those links are skipped.
func NewResolver(configDir, explicitDir string) *Resolver {
	home, _ := os.UserHomeDir()
	return &Resolver{
		ExplicitDir: explicitDir,
		LocalDir:    filepath.Join(".trainctl", "templates"),
		ConfigDir:   configDir,
		UserDir:     filepath.Join(home, ".trainctl", "templates"),
	}
}

// sources returns the non-empty links of the chain in priority order.
func (r *Resolver) sources() []TemplateInfo {
	all := []TemplateInfo{
		{Source: "explicit", Path: r.ExplicitDir},
		{Source: "local", Path: r.LocalDir},
		{Source: "config", Path: r.ConfigDir},
		{Source: "user", Path: r.UserDir},
	}
	chain := all[:0]
	for _, s := range all {
		if s.Path != "" {
			chain = append(chain, s)
		}
	}
	return chain
}

// Resolve walks the chain looking for <name>.yaml and returns the
// first hit with the source it came from. The error lists every path
// tried.
func (r *Resolver) Resolve(name string) (path, source string, err error) {
	var tried []string
	for _, s := range r.sources() {
		candidate := filepath.Join(s.Path, name+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, s.Source, nil
		}
		tried = append(tried, candidate)
	}
	return "", "", fmt.Errorf("template '%s' not found in:\n  %s", name, strings.Join(tried, "\n  "))
}

// List enumerates every template on disk, deduplicated by name. A
// template shadowed by an earlier link of the chain is not reported.
func (r *Resolver) List() []TemplateInfo {
	seen := make(map[string]bool)
	var infos []TemplateInfo
	for _, s := range r.sources() {
		files, err := filepath.Glob(filepath.Join(s.Path, "*.yaml"))
		if err != nil {
			continue
		}
		for _, f := range files {
			name := strings.TrimSuffix(filepath.Base(f), ".yaml")
			if seen[name] {
				continue
			}
			seen[name] = true
			infos = append(infos, TemplateInfo{Name: name, Path: f, Source: s.Source})
		}
	}
	return infos
}

// Service handles template loading, rendering, and management
type Service struct {
	resolver *Resolver
}

// Template represents a questionnaire template
type Template struct {
	Type          string                 `yaml:"type"`          // Questionnaire type (e.g. "pre_test", "post_test", "survey")
	Questionnaire map[string]interface{} `yaml:"questionnaire"` // QuestionnaireCreate fields with {{ }} placeholders
}

// NewService creates a new template service
func NewService(resolver *Resolver) *Service {
	return &Service{resolver: resolver}
}

// LoadTemplate loads a template by name: the resolver chain first, the
// embedded defaults as a last resort.
func (s *Service) LoadTemplate(name string) (*Template, error) {
	path, _, err := s.resolver.Resolve(name)
	if err != nil {
		if data, builtinErr := defaultTemplates.ReadFile("defaults/" + name + ".yaml"); builtinErr == nil {
			return s.parseTemplate(data)
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template '%s' from %s: %w", name, path, err)
	}

	return s.parseTemplate(data)
}

// GetBuiltinNames returns the names of all builtin templates
func (s *Service) GetBuiltinNames() []string {
	var names []string
	entries, err := defaultTemplates.ReadDir("defaults")
	if err != nil {
		return names
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	return names
}

// parseTemplate parses YAML template data into a Template struct
func (s *Service) parseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	if tmpl.Type == "" {
		return nil, fmt.Errorf("template missing required 'type' field")
	}
	if tmpl.Questionnaire == nil {
		return nil, fmt.Errorf("template missing required 'questionnaire' section")
	}

	return &tmpl, nil
}

// RenderQuestionnaire renders a template with the provided data into a
// ready-to-submit questionnaire payload.
func (s *Service) RenderQuestionnaire(tmpl *Template, data map[string]interface{}) (*models.QuestionnaireCreate, error) {
	funcMap := template.FuncMap{
		"toJson": func(v interface{}) string {
			if v == nil {
				return "null"
			}
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return string(b)
		},
		"default": func(defaultValue, value interface{}) interface{} {
			if value == nil || value == "" {
				return defaultValue
			}
			return value
		},
	}

	rendered := make(map[string]interface{}, len(tmpl.Questionnaire)+1)
	for key, value := range tmpl.Questionnaire {
		out, err := s.renderValue(value, data, funcMap)
		if err != nil {
			return nil, fmt.Errorf("failed to render field '%s': %w", key, err)
		}
		rendered[key] = out
	}
	rendered["type"] = tmpl.Type

	// Round-trip through JSON to get the typed payload
	raw, err := json.Marshal(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rendered template: %w", err)
	}
	var questionnaire models.QuestionnaireCreate
	if err := json.Unmarshal(raw, &questionnaire); err != nil {
		return nil, fmt.Errorf("rendered template is not a valid questionnaire: %w", err)
	}

	if questionnaire.Title == "" {
		return nil, fmt.Errorf("rendered questionnaire has no title")
	}

	return &questionnaire, nil
}

// renderValue recursively renders a value, handling strings, maps, arrays, and primitives
func (s *Service) renderValue(value interface{}, data map[string]interface{}, funcMap template.FuncMap) (interface{}, error) {
	switch v := value.(type) {
	case string:
		// Render string templates
		tmpl, err := template.New("field").Funcs(funcMap).Parse(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to execute template: %w", err)
		}

		result := buf.String()

		// Try to parse as JSON if it looks like JSON
		if strings.HasPrefix(strings.TrimSpace(result), "[") || strings.HasPrefix(strings.TrimSpace(result), "{") {
			var parsed interface{}
			if err := json.Unmarshal([]byte(result), &parsed); err == nil {
				return parsed, nil
			}
		}

		// Special handling for "null" string
		if result == "null" {
			return nil, nil
		}

		return result, nil

	case map[string]interface{}:
		// Recursively render map values
		rendered := make(map[string]interface{})
		for k, val := range v {
			renderedVal, err := s.renderValue(val, data, funcMap)
			if err != nil {
				return nil, err
			}
			rendered[k] = renderedVal
		}
		return rendered, nil

	case []interface{}:
		// Recursively render array values
		rendered := make([]interface{}, len(v))
		for i, val := range v {
			renderedVal, err := s.renderValue(val, data, funcMap)
			if err != nil {
				return nil, err
			}
			rendered[i] = renderedVal
		}
		return rendered, nil

	default:
		// Return primitives as-is (int, float, bool, nil)
		return v, nil
	}
}

// ListTemplates lists the on-disk templates plus any builtin default
// not shadowed by one of them.
func (s *Service) ListTemplates() []TemplateInfo {
	infos := s.resolver.List()
	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		seen[info.Name] = true
	}
	for _, name := range s.GetBuiltinNames() {
		if !seen[name] {
			infos = append(infos, TemplateInfo{Name: name, Path: "(builtin)", Source: "builtin"})
		}
	}
	return infos
}

// GetResolver returns the template resolver
func (s *Service) GetResolver() *Resolver {
	return s.resolver
}

// InitTemplatesToDir copies default templates to the specified directory
func (s *Service) InitTemplatesToDir(targetDir string) error {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create template directory: %w", err)
	}

	entries, err := defaultTemplates.ReadDir("defaults")
	if err != nil {
		return fmt.Errorf("failed to read default templates: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := defaultTemplates.ReadFile(filepath.Join("defaults", entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read default template %s: %w", entry.Name(), err)
		}

		targetPath := filepath.Join(targetDir, entry.Name())

		// Don't overwrite existing templates
		if _, err := os.Stat(targetPath); err == nil {
			continue
		}

		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write template %s: %w", entry.Name(), err)
		}
	}

	return nil
}
