// Package seed loads a bootstrap fixture of operators, sources, and weight
// assignments from a YAML file and applies it through the distribution
// commands so validation and defaulting stay in one place.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"leadflow/contexts/crm-core/distribution-service/application/commands"
	"leadflow/contexts/crm-core/distribution-service/application/queries"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
)

// Config is the seed file schema.
type Config struct {
	Version   string         `yaml:"version"`
	Operators []OperatorSpec `yaml:"operators,omitempty"`
	Sources   []SourceSpec   `yaml:"sources,omitempty"`
}

// OperatorSpec declares one operator. Zero MaxActiveLeads and nil IsActive
// take the service defaults.
type OperatorSpec struct {
	Name           string `yaml:"name"`
	MaxActiveLeads int    `yaml:"max_active_leads,omitempty"`
	IsActive       *bool  `yaml:"is_active,omitempty"`
}

// SourceSpec declares one source and, optionally, its weight table.
// Distribution entries reference operators from this file or ones already
// present in the store, by name.
type SourceSpec struct {
	Name         string       `yaml:"name"`
	Distribution []WeightSpec `yaml:"distribution,omitempty"`
}

// WeightSpec is one (operator, weight) row. Zero weight takes the default.
type WeightSpec struct {
	Operator string `yaml:"operator"`
	Weight   int    `yaml:"weight,omitempty"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks file-shape problems. Domain rules (blank names after
// trimming, non-positive limits) are still enforced by the commands layer
// during Apply.
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Version != "1" && c.Version != "1.0" {
		return fmt.Errorf("unsupported seed version: %s (supported: 1, 1.0)", c.Version)
	}

	operatorNames := make(map[string]bool, len(c.Operators))
	for i, op := range c.Operators {
		if op.Name == "" {
			return fmt.Errorf("operator[%d]: name is required", i)
		}
		if operatorNames[op.Name] {
			return fmt.Errorf("operator[%d]: duplicate operator name: %s", i, op.Name)
		}
		operatorNames[op.Name] = true
		if op.MaxActiveLeads < 0 {
			return fmt.Errorf("operator[%d] %s: max_active_leads must be non-negative", i, op.Name)
		}
	}

	sourceNames := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source[%d]: name is required", i)
		}
		if sourceNames[src.Name] {
			return fmt.Errorf("source[%d]: duplicate source name: %s", i, src.Name)
		}
		sourceNames[src.Name] = true

		seen := make(map[string]bool, len(src.Distribution))
		for j, entry := range src.Distribution {
			if entry.Operator == "" {
				return fmt.Errorf("source[%d] %s: distribution[%d]: operator is required", i, src.Name, j)
			}
			if seen[entry.Operator] {
				return fmt.Errorf("source[%d] %s: distribution[%d]: duplicate operator: %s", i, src.Name, j, entry.Operator)
			}
			seen[entry.Operator] = true
			if entry.Weight < 0 {
				return fmt.Errorf("source[%d] %s: distribution[%d]: weight must be non-negative", i, src.Name, j)
			}
		}
	}

	return nil
}

// Applier replays a seed config against the distribution service. Applying
// is idempotent by name: operators and sources that already exist are
// reused, and weight tables are replaced wholesale.
type Applier struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (a Applier) Apply(ctx context.Context, cfg *Config) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	operatorIDs, err := a.applyOperators(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return a.applySources(ctx, cfg, operatorIDs, logger)
}

func (a Applier) applyOperators(ctx context.Context, cfg *Config, logger *slog.Logger) (map[string]string, error) {
	existing, err := a.Queries.ListOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	ids := make(map[string]string, len(existing)+len(cfg.Operators))
	for _, op := range existing {
		if _, ok := ids[op.Name]; !ok {
			ids[op.Name] = op.ID
		}
	}

	for _, spec := range cfg.Operators {
		if id, ok := ids[spec.Name]; ok {
			logger.Info("seed operator already present", "name", spec.Name, "operator_id", id)
			continue
		}
		limit := spec.MaxActiveLeads
		if limit == 0 {
			limit = entities.DefaultMaxActiveLeads
		}
		active := true
		if spec.IsActive != nil {
			active = *spec.IsActive
		}
		operator, err := a.Commands.CreateOperator(ctx, commands.CreateOperatorCommand{
			Name:           spec.Name,
			IsActive:       active,
			MaxActiveLeads: limit,
		})
		if err != nil {
			return nil, fmt.Errorf("create operator %s: %w", spec.Name, err)
		}
		ids[operator.Name] = operator.ID
	}
	return ids, nil
}

func (a Applier) applySources(ctx context.Context, cfg *Config, operatorIDs map[string]string, logger *slog.Logger) error {
	existing, err := a.Queries.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	ids := make(map[string]string, len(existing)+len(cfg.Sources))
	for _, src := range existing {
		ids[src.Name] = src.ID
	}

	for _, spec := range cfg.Sources {
		sourceID, ok := ids[spec.Name]
		if !ok {
			source, err := a.Commands.CreateSource(ctx, commands.CreateSourceCommand{Name: spec.Name})
			switch {
			case err == nil:
				sourceID = source.ID
			case errors.Is(err, domainerrors.ErrSourceNameTaken):
				sourceID, err = a.findSourceID(ctx, spec.Name)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("create source %s: %w", spec.Name, err)
			}
			ids[spec.Name] = sourceID
		} else {
			logger.Info("seed source already present", "name", spec.Name, "source_id", sourceID)
		}

		if len(spec.Distribution) == 0 {
			continue
		}
		assignments := make([]commands.WeightAssignment, 0, len(spec.Distribution))
		for _, entry := range spec.Distribution {
			operatorID, ok := operatorIDs[entry.Operator]
			if !ok {
				return fmt.Errorf("source %s references unknown operator: %s", spec.Name, entry.Operator)
			}
			weight := entry.Weight
			if weight == 0 {
				weight = entities.DefaultWeight
			}
			assignments = append(assignments, commands.WeightAssignment{
				OperatorID: operatorID,
				Weight:     weight,
			})
		}
		if err := a.Commands.ReplaceDistribution(ctx, commands.ReplaceDistributionCommand{
			SourceID:    sourceID,
			Assignments: assignments,
		}); err != nil {
			return fmt.Errorf("set distribution for source %s: %w", spec.Name, err)
		}
	}
	return nil
}

func (a Applier) findSourceID(ctx context.Context, name string) (string, error) {
	sources, err := a.Queries.ListSources(ctx)
	if err != nil {
		return "", fmt.Errorf("list sources: %w", err)
	}
	for _, src := range sources {
		if src.Name == name {
			return src.ID, nil
		}
	}
	return "", fmt.Errorf("source %s: name taken but not listed", name)
}
