package database

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/relabel/internal/models"
)

// SeedLabel is one entry of a seed file
type SeedLabel struct {
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Page        string `yaml:"page"`
	Position    int    `yaml:"position"`
	Description string `yaml:"description"`
}

type seedFile struct {
	Labels []SeedLabel `yaml:"labels"`
}

// DefaultLabels is the label set provisioned by `relabel seed` without a file
var DefaultLabels = []SeedLabel{
	{Key: "nav_home", Value: "Home", Page: "navbar", Position: 1, Description: "Navigation link to home page"},
	{Key: "nav_about", Value: "About", Page: "navbar", Position: 2, Description: "Navigation link to about page"},

	{Key: "home_title", Value: "Welcome to Our Platform", Page: "home", Position: 1, Description: "Main title on home page"},
	{Key: "home_subtitle", Value: "Transforming Ideas into Reality", Page: "home", Position: 2, Description: "Subtitle on home page"},
	{Key: "home_feature1_title", Value: "Innovation", Page: "home", Position: 3, Description: "First feature title"},
	{Key: "home_feature2_title", Value: "Reliability", Page: "home", Position: 4, Description: "Second feature title"},
	{Key: "home_feature3_title", Value: "Excellence", Page: "home", Position: 5, Description: "Third feature title"},
	{Key: "home_cta_button", Value: "Get Started", Page: "home", Position: 6, Description: "Call to action button text"},

	{Key: "about_title", Value: "About Us", Page: "about", Position: 1, Description: "Main title on about page"},
	{Key: "about_section1_title", Value: "Our Mission", Page: "about", Position: 2, Description: "First section title on about page"},
	{Key: "about_section2_title", Value: "Our Vision", Page: "about", Position: 3, Description: "Second section title on about page"},
	{Key: "about_section3_title", Value: "Our Values", Page: "about", Position: 4, Description: "Third section title on about page"},

	{Key: "admin_dashboard_title", Value: "Admin Dashboard", Page: "admin", Position: 1, Description: "Admin dashboard title"},
	{Key: "admin_chatbot_title", Value: "Label Management Chatbot", Page: "admin", Position: 2, Description: "Chatbot panel title"},
}

// LoadSeedFile reads a YAML file of the form
//
//	labels:
//	  - key: nav_home
//	    value: Home
//	    page: navbar
//	    position: 1
func LoadSeedFile(path string) ([]SeedLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, l := range f.Labels {
		if l.Key == "" || l.Page == "" {
			return nil, fmt.Errorf("%w: seed entry %d needs a key and a page", models.ErrInvalidArgument, i)
		}
	}

	return f.Labels, nil
}

// Seed find-or-creates every label by key. Existing labels keep their current value.
// Returns the number of labels created.
func Seed(ctx context.Context, repo *LabelRepo, labels []SeedLabel) (int, error) {
	created := 0
	for _, l := range labels {
		ok, err := repo.Ensure(ctx, &models.Label{
			Key:         l.Key,
			Value:       l.Value,
			Page:        l.Page,
			Position:    l.Position,
			Description: l.Description,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
