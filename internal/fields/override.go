package fields

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of an alias override file. Operators use
// it to extend vendor alias chains for new feeds without recompiling.
type overrideFile struct {
	Income   []Spec `yaml:"income"`
	Balance  []Spec `yaml:"balance"`
	CashFlow []Spec `yaml:"cash_flow"`
}

// LoadOverrides reads a YAML override file and returns the three alias
// tables with the overrides merged in. Overrides extend, never replace: for
// a canonical field already in the built-in table, override aliases are
// appended after the built-ins; unknown canonical fields are ignored with a
// warning (the store has no column for them).
func LoadOverrides(path string) (income, balance, cashFlow []Spec, err error) {
	income, balance, cashFlow = IncomeSpecs, BalanceSpecs, CashFlowSpecs
	if path == "" {
		return income, balance, cashFlow, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, eris.Wrapf(err, "fields: read override file %s", path)
	}

	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, nil, nil, eris.Wrapf(err, "fields: parse override file %s", path)
	}

	income = merge(IncomeSpecs, of.Income)
	balance = merge(BalanceSpecs, of.Balance)
	cashFlow = merge(CashFlowSpecs, of.CashFlow)
	return income, balance, cashFlow, nil
}

func merge(base, overrides []Spec) []Spec {
	if len(overrides) == 0 {
		return base
	}

	byCanonical := make(map[string]int, len(base))
	merged := make([]Spec, len(base))
	for i, s := range base {
		merged[i] = Spec{Canonical: s.Canonical, Aliases: append([]string(nil), s.Aliases...), Required: s.Required}
		byCanonical[s.Canonical] = i
	}

	for _, o := range overrides {
		idx, ok := byCanonical[o.Canonical]
		if !ok {
			zap.L().Warn("fields: ignoring override for unknown canonical field",
				zap.String("canonical", o.Canonical),
			)
			continue
		}
		seen := make(map[string]bool, len(merged[idx].Aliases))
		for _, a := range merged[idx].Aliases {
			seen[a] = true
		}
		for _, a := range o.Aliases {
			if !seen[a] {
				merged[idx].Aliases = append(merged[idx].Aliases, a)
			}
		}
	}
	return merged
}
