package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RandomFigure stands for a figure generated fresh on every trial.
const RandomFigure = "random"

var ErrUnknownFigureSet = errors.New("no figure set with that name is registered")

// Figure is one entry of a figure set.
type Figure struct {
	Name string `yaml:"name"`
	// Weight is how many trials of each block use the figure.
	Weight int `yaml:"weight,omitempty"`
}

// FigureSet is a named list of figures a participant traces.
type FigureSet struct {
	Name    string   `yaml:"name"`
	Figures []Figure `yaml:"figures"`
}

type figureSetsFile struct {
	FigureSets []FigureSet `yaml:"figure_sets"`
}

// FigureSets indexes figure sets by name.
type FigureSets map[string]FigureSet

// LoadFigureSets reads figure sets from localPath, falling back to path
// when the local file is missing or ignoreLocal is set.
func LoadFigureSets(path, localPath string, ignoreLocal bool) (FigureSets, error) {
	if !ignoreLocal && localPath != "" {
		sets, err := readFigureSets(localPath)
		if err == nil {
			return sets, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	sets, err := readFigureSets(path)
	if errors.Is(err, os.ErrNotExist) {
		return FigureSets{}, nil
	}
	return sets, err
}

func readFigureSets(path string) (FigureSets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f figureSetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse figure sets %s: %w", path, err)
	}
	sets := make(FigureSets, len(f.FigureSets))
	for _, fs := range f.FigureSets {
		if fs.Name == "" {
			return nil, fmt.Errorf("figure set without a name in %s", path)
		}
		sets[fs.Name] = fs
	}
	return sets, nil
}

// MissingFigureError reports a figure listed in a set that has no saved
// archive.
type MissingFigureError struct {
	Figure string
	Set    string
}

func (e *MissingFigureError) Error() string {
	return fmt.Sprintf("The figure '%s' listed in the figure set '%s' wasn't found.\n"+
		"Please check that the file is named correctly and try again.", e.Figure, e.Set)
}

// Resolve returns the figures of set name, checking that every figure that
// is neither random nor built in has a saved archive in figuresDir.
func (sets FigureSets) Resolve(name string, builtin []string, figuresDir string) ([]Figure, error) {
	fs, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("figure set %q: %w", name, ErrUnknownFigureSet)
	}

	known := make(map[string]bool, len(builtin))
	for _, b := range builtin {
		known[b] = true
	}

	figures := make([]Figure, 0, len(fs.Figures))
	for _, f := range fs.Figures {
		if f.Name != RandomFigure && !known[f.Name] {
			archive := filepath.Join(figuresDir, f.Name+".zip")
			if _, err := os.Stat(archive); err != nil {
				return nil, &MissingFigureError{Figure: f.Name, Set: name}
			}
		}
		if f.Weight <= 0 {
			f.Weight = 1
		}
		figures = append(figures, f)
	}
	return figures, nil
}
