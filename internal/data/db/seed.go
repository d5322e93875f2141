package db

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type seedFile struct {
	Skills []struct {
		Slug          string   `yaml:"slug"`
		Name          string   `yaml:"name"`
		Description   string   `yaml:"description"`
		Prerequisites []string `yaml:"prerequisites"`
	} `yaml:"skills"`
	Roles []struct {
		Slug         string `yaml:"slug"`
		Title        string `yaml:"title"`
		Requirements []struct {
			Skill      string  `yaml:"skill"`
			Level      string  `yaml:"level"`
			Weight     float64 `yaml:"weight"`
			Difficulty float64 `yaml:"difficulty"`
		} `yaml:"requirements"`
	} `yaml:"roles"`
}

// SeedCatalog loads a YAML catalog file and upserts skills, prerequisite
// edges, roles, and role requirements by slug. Re-running against the same
// file is a no-op, so it is safe on every boot.
func SeedCatalog(db *gorm.DB, log *logger.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog seed: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse catalog seed: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		skillBySlug := map[string]uuid.UUID{}
		for _, s := range sf.Skills {
			row := types.Skill{Slug: s.Slug, Name: s.Name, Description: s.Description}
			if err := tx.Where(types.Skill{Slug: s.Slug}).
				Assign(map[string]interface{}{"name": s.Name, "description": s.Description}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed skill %q: %w", s.Slug, err)
			}
			skillBySlug[s.Slug] = row.ID
		}

		for _, s := range sf.Skills {
			for _, pre := range s.Prerequisites {
				preID, ok := skillBySlug[pre]
				if !ok {
					return fmt.Errorf("skill %q references unknown prerequisite %q", s.Slug, pre)
				}
				edge := types.SkillPrerequisite{SkillID: skillBySlug[s.Slug], PrerequisiteID: preID}
				if err := tx.Where(types.SkillPrerequisite{
					SkillID:        edge.SkillID,
					PrerequisiteID: edge.PrerequisiteID,
				}).FirstOrCreate(&edge).Error; err != nil {
					return fmt.Errorf("seed prerequisite %q -> %q: %w", s.Slug, pre, err)
				}
			}
		}

		for _, r := range sf.Roles {
			role := types.Role{Slug: r.Slug, Title: r.Title}
			if err := tx.Where(types.Role{Slug: r.Slug}).
				Assign(map[string]interface{}{"title": r.Title}).
				FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("seed role %q: %w", r.Slug, err)
			}
			for i, req := range r.Requirements {
				skillID, ok := skillBySlug[req.Skill]
				if !ok {
					return fmt.Errorf("role %q references unknown skill %q", r.Slug, req.Skill)
				}
				row := types.SkillRequirement{RoleID: role.ID, SkillID: skillID}
				if err := tx.Where(types.SkillRequirement{RoleID: role.ID, SkillID: skillID}).
					Assign(map[string]interface{}{
						"level":      req.Level,
						"weight":     req.Weight,
						"difficulty": req.Difficulty,
						"position":   i,
					}).FirstOrCreate(&row).Error; err != nil {
					return fmt.Errorf("seed requirement %q/%q: %w", r.Slug, req.Skill, err)
				}
			}
		}

		if log != nil {
			log.Info("catalog seeded", "skills", len(sf.Skills), "roles", len(sf.Roles))
		}
		return nil
	})
}
