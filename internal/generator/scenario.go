package generator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads a YAML scenario file and applies it over base,
// returning the merged configuration. Fields absent from the file keep
// their base values; the caller still runs Validate (via New) on the
// result, so a half-overridden probability vector fails fast there.
func LoadScenario(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	merged, err := file.apply(base)
	if err != nil {
		return Config{}, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return merged, nil
}

// scenarioFile is the YAML surface of a scenario. Pointer fields
// distinguish "absent" from zero overrides.
type scenarioFile struct {
	Seed      *int64 `yaml:"seed"`
	Suppliers *int   `yaml:"suppliers"`
	Materials *int   `yaml:"materials"`
	Orders    *int   `yaml:"orders"`

	TierDistribution []float64       `yaml:"tier_distribution"`
	CountryWeights   []CountryWeight `yaml:"country_weights"`

	Capacity    *scenarioCapacity    `yaml:"capacity"`
	Cost        *scenarioCost        `yaml:"cost"`
	Nexus       *scenarioNexus       `yaml:"nexus"`
	Sourcing    *scenarioSourcing    `yaml:"sourcing"`
	OrderWindow *scenarioDateRange   `yaml:"order_window"`
	Horizon     string               `yaml:"horizon"`
	LeadTime    *scenarioIntRange    `yaml:"lead_time_days"`
	Bulk        *scenarioBulk        `yaml:"bulk"`
	Fulfillment *scenarioFulfillment `yaml:"fulfillment"`
	PriceNoise  *scenarioFloatRange  `yaml:"price_noise"`

	UniformQuantityMax *int `yaml:"uniform_quantity_max"`
}

type scenarioCapacity struct {
	ZipfShape *float64 `yaml:"zipf_shape"`
	Max       *int     `yaml:"max"`
}

type scenarioCost struct {
	Mu    *float64 `yaml:"mu"`
	Sigma *float64 `yaml:"sigma"`
}

type scenarioNexus struct {
	Fraction *float64 `yaml:"fraction"`
	Bias     *float64 `yaml:"bias"`
}

type scenarioSourcing struct {
	MinCandidates *int `yaml:"min_candidates"`
	MaxCandidates *int `yaml:"max_candidates"`
}

type scenarioDateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type scenarioIntRange struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type scenarioFloatRange struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

type scenarioBulk struct {
	Probability *float64 `yaml:"probability"`
	ParetoShape *float64 `yaml:"pareto_shape"`
	ParetoScale *float64 `yaml:"pareto_scale"`
}

type scenarioFulfillment struct {
	Full    *float64 `yaml:"full"`
	Partial *float64 `yaml:"partial"`
	Missing *float64 `yaml:"missing"`
}

func (f scenarioFile) apply(cfg Config) (Config, error) {
	if f.Seed != nil {
		cfg.Seed = *f.Seed
	}
	if f.Suppliers != nil {
		cfg.NumSuppliers = *f.Suppliers
	}
	if f.Materials != nil {
		cfg.NumMaterials = *f.Materials
	}
	if f.Orders != nil {
		cfg.NumOrders = *f.Orders
	}
	if len(f.TierDistribution) > 0 {
		cfg.TierProbabilities = f.TierDistribution
	}
	if len(f.CountryWeights) > 0 {
		cfg.CountryWeights = f.CountryWeights
	}

	if f.Capacity != nil {
		if f.Capacity.ZipfShape != nil {
			cfg.Capacity.ZipfShape = *f.Capacity.ZipfShape
		}
		if f.Capacity.Max != nil {
			cfg.Capacity.Max = *f.Capacity.Max
		}
	}
	if f.Cost != nil {
		if f.Cost.Mu != nil {
			cfg.Cost.Mu = *f.Cost.Mu
		}
		if f.Cost.Sigma != nil {
			cfg.Cost.Sigma = *f.Cost.Sigma
		}
	}
	if f.Nexus != nil {
		if f.Nexus.Fraction != nil {
			cfg.Nexus.Fraction = *f.Nexus.Fraction
		}
		if f.Nexus.Bias != nil {
			cfg.Nexus.Bias = *f.Nexus.Bias
		}
	}
	if f.Sourcing != nil {
		if f.Sourcing.MinCandidates != nil {
			cfg.Sourcing.MinCandidates = *f.Sourcing.MinCandidates
		}
		if f.Sourcing.MaxCandidates != nil {
			cfg.Sourcing.MaxCandidates = *f.Sourcing.MaxCandidates
		}
	}

	if f.OrderWindow != nil {
		if f.OrderWindow.Start != "" {
			start, err := parseScenarioDate("order_window.start", f.OrderWindow.Start)
			if err != nil {
				return Config{}, err
			}
			cfg.Simulation.WindowStart = start
		}
		if f.OrderWindow.End != "" {
			end, err := parseScenarioDate("order_window.end", f.OrderWindow.End)
			if err != nil {
				return Config{}, err
			}
			cfg.Simulation.WindowEnd = end
		}
	}
	if f.Horizon != "" {
		horizon, err := parseScenarioDate("horizon", f.Horizon)
		if err != nil {
			return Config{}, err
		}
		cfg.Simulation.Horizon = horizon
	}

	if f.LeadTime != nil {
		if f.LeadTime.Min != nil {
			cfg.Simulation.LeadTimeMinDays = *f.LeadTime.Min
		}
		if f.LeadTime.Max != nil {
			cfg.Simulation.LeadTimeMaxDays = *f.LeadTime.Max
		}
	}
	if f.Bulk != nil {
		if f.Bulk.Probability != nil {
			cfg.Simulation.BulkProbability = *f.Bulk.Probability
		}
		if f.Bulk.ParetoShape != nil {
			cfg.Simulation.BulkParetoShape = *f.Bulk.ParetoShape
		}
		if f.Bulk.ParetoScale != nil {
			cfg.Simulation.BulkParetoScale = *f.Bulk.ParetoScale
		}
	}
	if f.UniformQuantityMax != nil {
		cfg.Simulation.UniformQuantityMax = *f.UniformQuantityMax
	}
	if f.Fulfillment != nil {
		if f.Fulfillment.Full != nil {
			cfg.Simulation.StatusFull = *f.Fulfillment.Full
		}
		if f.Fulfillment.Partial != nil {
			cfg.Simulation.StatusPartial = *f.Fulfillment.Partial
		}
		if f.Fulfillment.Missing != nil {
			cfg.Simulation.StatusMissing = *f.Fulfillment.Missing
		}
	}
	if f.PriceNoise != nil {
		if f.PriceNoise.Min != nil {
			cfg.Simulation.PriceNoiseMin = *f.PriceNoise.Min
		}
		if f.PriceNoise.Max != nil {
			cfg.Simulation.PriceNoiseMax = *f.PriceNoise.Max
		}
	}

	return cfg, nil
}

func parseScenarioDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q is not a YYYY-MM-DD date", field, value)
	}
	return t, nil
}
