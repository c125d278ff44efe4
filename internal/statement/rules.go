package statement

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"
)

type ruleSpec struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Reason      string `yaml:"reason"`
	ReasonGroup int    `yaml:"reason_group"`
	OrderGroup  int    `yaml:"order_group"`
}

// LoadRules reads extra classifier rules from a YAML file. They are appended
// after the built-in rules, so they only see descriptions no default rule
// claimed.
func LoadRules(path string) ([]Rule, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	specs := []ruleSpec{}
	if err := yaml.Unmarshal(blob, &specs); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		if spec.Pattern == "" {
			return nil, fmt.Errorf("rules file %s: rule %d has no pattern", path, i)
		}
		re, err := regexp.Compile("(?i)" + spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: rule %q: %w", path, spec.Name, err)
		}
		rules = append(rules, Rule{
			Name:        spec.Name,
			Pattern:     re,
			FixedReason: spec.Reason,
			ReasonGroup: spec.ReasonGroup,
			OrderGroup:  spec.OrderGroup,
		})
	}
	return rules, nil
}
