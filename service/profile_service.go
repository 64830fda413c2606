package service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// ProfileService loads per-supplier matching profiles from YAML files.
// The alias table and qualifier list differ per supplier, so they live in
// configuration instead of being baked into the matcher.
type ProfileService struct {
	profiles map[string]models.SupplierProfile
}

// NewProfileService loads every *.yaml / *.yml profile in dir. A missing or
// empty directory is fine: lookups then fall back to the built-in default.
func NewProfileService(dir string) (*ProfileService, error) {
	s := &ProfileService{profiles: make(map[string]models.SupplierProfile)}
	if dir == "" {
		return s, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("⚠️  Supplier profile directory %s not found, using defaults", dir)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
		}
		var profile models.SupplierProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
		}
		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		s.profiles[strings.ToLower(profile.Name)] = profile
		log.Printf("✓ Loaded supplier profile %s (%d aliases, %d qualifiers)",
			profile.Name, len(profile.Aliases), len(profile.Qualifiers))
	}
	return s, nil
}

// Get returns the profile for a supplier, falling back to the default
func (s *ProfileService) Get(supplier string) models.SupplierProfile {
	if profile, ok := s.profiles[strings.ToLower(supplier)]; ok {
		return profile
	}
	if supplier != "" && !strings.EqualFold(supplier, "default") {
		log.Printf("⚠️  No supplier profile named %s loaded, using the built-in default", supplier)
	}
	return models.DefaultSupplierProfile()
}
