// Package seed loads hand-written course plans from YAML fixtures.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"nishtha/internal/model"
	"nishtha/internal/service"
)

// File is the layout of one fixture file
type File struct {
	Courses []model.Course `yaml:"courses"`
}

// LoadFromFile parses and validates every course in one YAML file
func LoadFromFile(path string) ([]model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range f.Courses {
		if err := normalize(&f.Courses[i]); err != nil {
			return nil, fmt.Errorf("%s: course %d: %w", filepath.Base(path), i, err)
		}
	}
	return f.Courses, nil
}

// LoadFromDir loads every *.yaml and *.yml file in dir, in name order
func LoadFromDir(dir string) ([]model.Course, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var courses []model.Course
	for _, file := range files {
		loaded, err := LoadFromFile(file)
		if err != nil {
			return nil, err
		}
		courses = append(courses, loaded...)
	}
	return courses, nil
}

// Load reads path as a directory of fixtures or a single file
func Load(path string) ([]model.Course, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadFromDir(path)
	}
	return LoadFromFile(path)
}

func normalize(c *model.Course) error {
	if c.VideoURL == "" {
		return fmt.Errorf("videoURL is required")
	}
	id, err := service.ExtractVideoID(c.VideoURL)
	if err != nil {
		return err
	}
	if c.VideoID == "" {
		c.VideoID = id
	} else if c.VideoID != id {
		return fmt.Errorf("videoID %q does not match videoURL", c.VideoID)
	}
	if c.CourseTitle == "" {
		return fmt.Errorf("courseTitle is required")
	}
	return service.ValidatePlan(c.Modules)
}
