// Package report renders mining results for people: an XLSX workbook and a
// plain text listing.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"basketminer/pattern"
	"basketminer/rules"
	U "basketminer/util"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	ItemsetsSheet = "itemsets"
	RulesSheet    = "rules"

	precision = 4
)

var (
	itemsetsHeader = []interface{}{"size", "itemset", "count", "support"}
	rulesHeader    = []interface{}{"antecedent", "consequent", "support", "confidence", "lift"}
)

// WriteXLSX writes res as a workbook with one sheet of itemsets and one of
// rules. Sheets get a prefix when several results share a workbook.
func WriteXLSX(w io.Writer, results ...pattern.Result) error {
	f := excelize.NewFile()
	first := true
	for _, res := range results {
		prefix := ""
		if len(results) > 1 {
			prefix = string(res.Algorithm) + "_"
		}
		itemsetsName := prefix + ItemsetsSheet
		if first {
			f.SetSheetName("Sheet1", itemsetsName)
			first = false
		} else {
			f.NewSheet(itemsetsName)
		}
		if err := writeItemsetsSheet(f, itemsetsName, res); err != nil {
			return err
		}
		rulesName := prefix + RulesSheet
		f.NewSheet(rulesName)
		if err := writeRulesSheet(f, rulesName, res.Rules); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return E.Wrap(err, "report: writing workbook")
	}
	log.WithField("results", len(results)).Debug("Wrote xlsx report.")
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return E.Wrapf(err, "report: sheet %s row %d", sheet, row)
	}
	return nil
}

func writeItemsetsSheet(f *excelize.File, sheet string, res pattern.Result) error {
	if err := setRow(f, sheet, 1, itemsetsHeader); err != nil {
		return err
	}
	for i, e := range res.Itemsets {
		row := []interface{}{e.Itemset.Len(), strings.Join(e.Itemset.Items(), ", "), e.Count, round(e.Support)}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 40)
}

func writeRulesSheet(f *excelize.File, sheet string, rs []rules.Rule) error {
	if err := setRow(f, sheet, 1, rulesHeader); err != nil {
		return err
	}
	for i, r := range rs {
		row := []interface{}{
			strings.Join(r.Antecedent.Items(), ", "),
			strings.Join(r.Consequent.Items(), ", "),
			round(r.Support),
			round(r.Confidence),
			round(r.Lift),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "B", 30)
}

func round(v float64) float64 {
	r, err := U.FloatRoundOffWithPrecision(v, precision)
	if err != nil {
		return v
	}
	return r
}

// WriteText lists the frequent itemsets grouped by size, the rules in
// confidence order and the rules with lift above one in lift order.
func WriteText(w io.Writer, res pattern.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s: %d transactions, min_support=%v, min_confidence=%v ==\n",
		res.Algorithm, res.Transactions, res.MinSupport, res.MinConfidence)
	fmt.Fprintf(&b, "frequent itemsets: %d\n", len(res.Itemsets))

	groups := res.BySize()
	sizes := make([]int, 0, len(groups))
	for size := range groups {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		fmt.Fprintf(&b, "\n%d-itemsets (%d)\n", size, len(groups[size]))
		for _, e := range groups[size] {
			fmt.Fprintf(&b, "  %-40s count=%d support=%v\n", e.Itemset, e.Count, round(e.Support))
		}
	}

	fmt.Fprintf(&b, "\nrules: %d\n", len(res.Rules))
	for _, r := range res.Rules {
		writeRule(&b, r)
	}

	lifted := rules.Filter(res.Rules, 1)
	rules.SortByLift(lifted)
	fmt.Fprintf(&b, "\nrules with lift > 1: %d\n", len(lifted))
	for _, r := range lifted {
		writeRule(&b, r)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRule(b *strings.Builder, r rules.Rule) {
	fmt.Fprintf(b, "  %-40s support=%v confidence=%v lift=%v\n",
		r.String(), round(r.Support), round(r.Confidence), round(r.Lift))
}

// WriteDifferences lists engine disagreements, one per line.
func WriteDifferences(w io.Writer, diffs []pattern.Difference) error {
	if len(diffs) == 0 {
		_, err := io.WriteString(w, "engines agree\n")
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "differences: %d\n", len(diffs))
	for _, d := range diffs {
		fmt.Fprintf(&b, "  %s\n", d)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
