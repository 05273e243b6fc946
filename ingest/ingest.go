// Package ingest turns raw basket files into transaction databases.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"basketminer/itemset"
	U "basketminer/util"

	"github.com/jinzhu/now"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Format string

const (
	// FormatLong is a headed CSV with one (transaction, item) pair per row.
	FormatLong Format = "long"
	// FormatBaskets is one transaction per line, items comma separated.
	FormatBaskets Format = "baskets"

	TransactionColumn = "transaction"
	ItemColumn        = "item"
	// DateColumn is optional. When present, transactions are also counted
	// per weekday.
	DateColumn = "date"
)

var (
	ErrUnknownFormat = E.New("ingest: unknown format")
	ErrMissingColumn = E.New("ingest: missing column")
)

func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatLong, "csv", "":
		return FormatLong, nil
	case FormatBaskets, "lines":
		return FormatBaskets, nil
	}
	return "", E.Wrapf(ErrUnknownFormat, "%q", name)
}

// Stats summarises what cleaning did to the input.
type Stats struct {
	Rows         int `json:"rows"`
	Dropped      int `json:"dropped"`
	Duplicates   int `json:"duplicates"`
	Transactions int `json:"transactions"`
	Items        int `json:"items"`

	// ByWeekday counts distinct transactions per weekday name. Rows whose
	// date does not parse are not counted.
	ByWeekday map[string]int `json:"by_weekday,omitempty"`
}

func Read(r io.Reader, format Format) (itemset.Database, Stats, error) {
	switch format {
	case FormatLong:
		return ReadTransactions(r)
	case FormatBaskets:
		return ReadBaskets(r)
	}
	return itemset.Database{}, Stats{}, E.Wrapf(ErrUnknownFormat, "%q", format)
}

// ReadTransactions reads the long format. Rows with a missing cell or an
// item of NONE are dropped, as are exact duplicate rows. Transactions keep
// the order in which their id first appears.
func ReadTransactions(r io.Reader) (itemset.Database, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var stats Stats
	header, err := reader.Read()
	if err == io.EOF {
		return itemset.NewDatabase(nil), stats, nil
	}
	if err != nil {
		return itemset.Database{}, stats, E.Wrap(err, "ingest: reading header")
	}
	trCol, itemCol, dateCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case TransactionColumn:
			trCol = i
		case ItemColumn:
			itemCol = i
		case DateColumn:
			dateCol = i
		}
	}
	if trCol < 0 {
		return itemset.Database{}, stats, E.Wrap(ErrMissingColumn, TransactionColumn)
	}
	if itemCol < 0 {
		return itemset.Database{}, stats, E.Wrap(ErrMissingColumn, ItemColumn)
	}

	order := make([]string, 0)
	baskets := make(map[string][]string)
	seenRows := make(map[string]bool)
	weekdays := make(map[string]map[string]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return itemset.Database{}, stats, E.Wrapf(err, "ingest: row %d", stats.Rows+1)
		}
		stats.Rows++
		if len(record) != len(header) || hasMissingCell(record) {
			stats.Dropped++
			continue
		}
		tr := strings.TrimSpace(record[trCol])
		item := strings.TrimSpace(record[itemCol])
		if U.IsMissingValue(tr) || U.IsMissingValue(item) {
			stats.Dropped++
			continue
		}
		rowKey := strings.Join(record, "\x00")
		if seenRows[rowKey] {
			stats.Duplicates++
			continue
		}
		seenRows[rowKey] = true
		if dateCol >= 0 {
			countWeekday(weekdays, record[dateCol], tr)
		}

		if _, ok := baskets[tr]; !ok {
			order = append(order, tr)
		}
		baskets[tr] = append(baskets[tr], item)
	}

	rows := make([][]string, 0, len(order))
	for _, tr := range order {
		rows = append(rows, U.MakeUniqueTrans(baskets[tr]))
	}
	if len(weekdays) > 0 {
		stats.ByWeekday = make(map[string]int, len(weekdays))
		for day, trs := range weekdays {
			stats.ByWeekday[day] = len(trs)
		}
	}
	return finish(rows, stats)
}

func countWeekday(weekdays map[string]map[string]bool, date, tr string) {
	day, err := now.Parse(strings.TrimSpace(date))
	if err != nil {
		log.WithFields(log.Fields{"date": date, "transaction": tr}).Debug("Unparsable date.")
		return
	}
	name := day.Weekday().String()
	if weekdays[name] == nil {
		weekdays[name] = make(map[string]bool)
	}
	weekdays[name][tr] = true
}

// ReadBaskets reads one transaction per line. Lines starting with # are
// skipped, missing items are dropped and so are lines left with no items.
func ReadBaskets(r io.Reader) (itemset.Database, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var stats Stats
	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return itemset.Database{}, stats, E.Wrapf(err, "ingest: line %d", stats.Rows+1)
		}
		stats.Rows++
		basket := make([]string, 0, len(record))
		for _, cell := range record {
			item := strings.TrimSpace(cell)
			if U.IsMissingValue(item) {
				continue
			}
			basket = append(basket, item)
		}
		if len(basket) == 0 {
			stats.Dropped++
			continue
		}
		rows = append(rows, basket)
	}
	return finish(rows, stats)
}

func hasMissingCell(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) == "" {
			return true
		}
	}
	return false
}

func finish(rows [][]string, stats Stats) (itemset.Database, Stats, error) {
	db := itemset.NewDatabase(rows)
	stats.Transactions = db.Len()
	stats.Items = len(db.Items())
	log.WithFields(log.Fields{
		"rows":         stats.Rows,
		"dropped":      stats.Dropped,
		"duplicates":   stats.Duplicates,
		"transactions": stats.Transactions,
		"items":        stats.Items,
	}).Info("Loaded transactions.")
	return db, stats, nil
}

// TopItems returns the n most frequent items with their transaction counts.
// n <= 0 returns every item.
func TopItems(db itemset.Database, n int) U.PairList {
	ranked := U.RankByCount(db.ItemCounts())
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
