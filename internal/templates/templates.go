// Package templates loads the plain-text legal templates. Templates are configuration
// data: the embedded defaults can be replaced by a directory holding a manifest.yaml and
// the files it names, without code changes.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"

	"gopkg.in/yaml.v3"
)

//go:embed files
var embedded embed.FS

const manifestFile = "manifest.yaml"

const (
	PowerOfAttorney = "powerOfAttorney"
	Form3           = "form3"
)

type Template struct {
	Name  string
	Title string
	Body  string
}

type entry struct {
	File  string `yaml:"file"`
	Title string `yaml:"title"`
}

type manifest struct {
	Templates map[string]entry `yaml:"templates"`
}

// Source resolves template names to template bodies. Reads are scoped per call and
// hold no locks, so a Source is safe for concurrent use.
type Source struct {
	fsys     fs.FS
	manifest manifest
}

// NewSource returns the embedded templates when dir is empty, otherwise the templates in dir.
func NewSource(dir string) (*Source, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "files")
		if err != nil {
			return nil, fmt.Errorf("mount embedded templates: %w", err)
		}
		return NewSourceFS(sub)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &types.ConfigError{Resource: "template directory", Identifier: dir, Err: err}
	}
	return NewSourceFS(os.DirFS(dir))
}

func NewSourceFS(fsys fs.FS) (*Source, error) {
	data, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return nil, &types.ConfigError{Resource: "template manifest", Identifier: manifestFile, Err: err}
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
	}

	return &Source{fsys: fsys, manifest: m}, nil
}

// Load reads the named template. A name missing from the manifest, or a manifest entry
// whose file is absent, is a configuration error naming the template.
func (s *Source) Load(name string) (*Template, error) {
	e, ok := s.manifest.Templates[name]
	if !ok || e.File == "" {
		return nil, &types.ConfigError{Resource: "template", Identifier: name, Err: types.ErrTemplateNotFound}
	}

	data, err := fs.ReadFile(s.fsys, e.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", types.ErrTemplateNotFound, e.File)
		}
		return nil, &types.ConfigError{Resource: "template", Identifier: name, Err: err}
	}

	return &Template{Name: name, Title: e.Title, Body: string(data)}, nil
}

// Claim loads the base template of a claim type.
func (s *Source) Claim(c types.ClaimType) (*Template, error) {
	return s.Load(string(c))
}

// Title returns the manifest title of name, or "" when unknown.
func (s *Source) Title(name string) string {
	return s.manifest.Templates[name].Title
}
