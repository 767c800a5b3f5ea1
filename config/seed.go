package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dosada05/house-tournament/models"
)

type SeedHouse struct {
	Name     string `yaml:"name"`
	Color    string `yaml:"color"`
	ColorHex string `yaml:"color_hex"`
}

type SeedTable struct {
	Name             string `yaml:"name"`
	AssignedCategory string `yaml:"assigned_category"`
	SortOrder        int    `yaml:"sort_order"`
}

// Seed - справочные данные турнира: дома и игровые столы.
type Seed struct {
	Houses []SeedHouse `yaml:"houses"`
	Tables []SeedTable `yaml:"tables"`
}

func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	names := make(map[string]struct{}, len(seed.Houses))
	for i, h := range seed.Houses {
		if h.Name == "" {
			return nil, fmt.Errorf("seed house #%d has no name", i+1)
		}
		if _, dup := names[h.Name]; dup {
			return nil, fmt.Errorf("seed house %q is listed twice", h.Name)
		}
		names[h.Name] = struct{}{}
	}
	for i, t := range seed.Tables {
		if t.Name == "" {
			return nil, fmt.Errorf("seed table #%d has no name", i+1)
		}
		switch models.TableAssignment(t.AssignedCategory) {
		case "":
			seed.Tables[i].AssignedCategory = string(models.TableAssignmentBoth)
		case models.TableAssignment(models.CategoryMixedDoubles),
			models.TableAssignment(models.CategoryMensDoubles),
			models.TableAssignmentBoth:
		default:
			return nil, fmt.Errorf("seed table %q has unknown category %q", t.Name, t.AssignedCategory)
		}
	}
	return &seed, nil
}
