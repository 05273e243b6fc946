package rules

import (
	"fmt"
	"sort"

	"basketminer/itemset"
	"basketminer/support"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Rule is an implication Antecedent => Consequent.
type Rule struct {
	Antecedent itemset.Itemset `json:"antecedent"`
	Consequent itemset.Itemset `json:"consequent"`
	Confidence float64         `json:"confidence"`
	// Support of Antecedent ∪ Consequent.
	Support float64 `json:"support"`
	// Lift is Confidence over the consequent's support, 0 when that support
	// was never counted.
	Lift float64 `json:"lift"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s => %s", r.Antecedent, r.Consequent)
}

// Generate splits every frequent itemset of two or more items into all
// antecedent/consequent pairs and keeps those whose confidence reaches
// minConfidence. Every subset of every itemset must be present in table.
func Generate(frequent []itemset.Itemset, table *support.Table, minConfidence float64) ([]Rule, error) {
	if err := support.ValidateThreshold("min_confidence", minConfidence); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0)
	for _, freqSet := range frequent {
		n := freqSet.Len()
		if n < 2 {
			continue
		}
		setSupport, err := table.Lookup(freqSet)
		if err != nil {
			return nil, errors.Wrap(err, "frequent itemset")
		}
		for size := 1; size < n; size++ {
			for _, antecedent := range freqSet.Subsets(size) {
				anteSupport, err := table.Lookup(antecedent)
				if err != nil {
					return nil, errors.Wrapf(err, "antecedent of %s", freqSet)
				}
				conf := setSupport / anteSupport
				if conf < minConfidence {
					continue
				}
				consequent := freqSet.Difference(antecedent)
				var lift float64
				if consSupport, ok := table.Get(consequent); ok && consSupport > 0 {
					lift = conf / consSupport
				}
				rules = append(rules, Rule{
					Antecedent: antecedent,
					Consequent: consequent,
					Confidence: conf,
					Support:    setSupport,
					Lift:       lift,
				})
			}
		}
	}
	log.WithFields(log.Fields{
		"itemsets": len(frequent),
		"rules":    len(rules),
	}).Debug("Generated rules.")
	return rules, nil
}

// SortByConfidence orders rules by descending confidence, then by lift,
// then by their string form.
func SortByConfidence(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		return rules[i].String() < rules[j].String()
	})
}

// SortByLift orders rules by descending lift, then by confidence.
func SortByLift(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Lift != rules[j].Lift {
			return rules[i].Lift > rules[j].Lift
		}
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		return rules[i].String() < rules[j].String()
	})
}

// Filter keeps the rules whose lift is strictly above minLift.
func Filter(rules []Rule, minLift float64) []Rule {
	out := make([]Rule, 0)
	for _, r := range rules {
		if r.Lift > minLift {
			out = append(out, r)
		}
	}
	return out
}
