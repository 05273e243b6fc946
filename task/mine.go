package task

import (
	"bytes"
	"os"

	"basketminer/filestore"
	"basketminer/fptree"
	"basketminer/ingest"
	"basketminer/itemset"
	"basketminer/pattern"
	"basketminer/report"
	"basketminer/store"
	U "basketminer/util"

	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MineJob describes one batch mining run over a stored dataset.
type MineJob struct {
	Dataset    string
	Format     ingest.Format
	Algorithms []pattern.Algorithm
	// Algorithm in Params is ignored, Algorithms decides what runs.
	Params    pattern.Params
	Tolerance float64
	// TopItems is how many hot items to report, 0 for none.
	TopItems    int
	WriteReport bool
	DumpTree    bool
}

type MineJobResult struct {
	Run      *store.Run
	TopItems U.PairList
}

func loadDataset(fm filestore.FileManager, dataset string, format ingest.Format) (itemset.Database, ingest.Stats, error) {
	path, fName := fm.GetDatasetFilePathAndName(dataset)
	rc, err := fm.Get(path, fName)
	if err != nil {
		return itemset.Database{}, ingest.Stats{}, E.Wrapf(err, "opening dataset %s", dataset)
	}
	defer rc.Close()
	return ingest.Read(rc, format)
}

// MineDataset loads job.Dataset through fm, mines it with every requested
// engine, compares the outputs when more than one engine ran and stores the
// run. The xlsx report and the serialized FP-tree are written next to it on
// request.
func MineDataset(fm filestore.FileManager, rs *store.ResultStore, job MineJob) (*MineJobResult, error) {
	logCtx := log.WithFields(log.Fields{"dataset": job.Dataset, "algorithms": job.Algorithms})
	if len(job.Algorithms) == 0 {
		return nil, E.New("no algorithm requested")
	}

	db, stats, err := loadDataset(fm, job.Dataset, job.Format)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load dataset.")
		return nil, err
	}
	result := &MineJobResult{}
	if job.TopItems > 0 {
		result.TopItems = ingest.TopItems(db, job.TopItems)
		logCtx.WithField("top_items", result.TopItems).Info("Hot items.")
	}

	results := make([]pattern.Result, 0, len(job.Algorithms))
	for _, algo := range job.Algorithms {
		params := job.Params
		params.Algorithm = algo
		res, err := pattern.Mine(db, params)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	run := &store.Run{Dataset: job.Dataset, Stats: &stats, Results: results}
	for i := 1; i < len(results); i++ {
		run.Differences = append(run.Differences, pattern.Compare(results[0], results[i], job.Tolerance)...)
	}
	if len(run.Differences) > 0 {
		logCtx.WithField("differences", len(run.Differences)).Warn("Engines disagree.")
	}

	if _, err := rs.Put(run); err != nil {
		return nil, err
	}
	result.Run = run
	logCtx = logCtx.WithField("run_id", run.ID)

	if job.WriteReport {
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, results...); err != nil {
			return nil, err
		}
		path, fName := fm.GetReportFilePathAndName(run.ID)
		if err := fm.Create(path, fName, &buf); err != nil {
			logCtx.WithError(err).Error("Failed to write report.")
			return nil, err
		}
	}
	if job.DumpTree {
		if err := dumpTree(fm, run.ID, db, job.Params.MinSupport); err != nil {
			logCtx.WithError(err).Error("Failed to write fp tree.")
			return nil, err
		}
	}
	logCtx.Info("Mining job finished.")
	return result, nil
}

func dumpTree(fm filestore.FileManager, runID string, db itemset.Database, minSupport float64) error {
	tree := fptree.Build(db.Compact(), minSupport, db.Len())
	if tree == nil {
		log.WithField("run_id", runID).Info("No frequent items, fp tree not written.")
		return nil
	}
	var buf bytes.Buffer
	if err := fptree.WriteTree(&buf, tree); err != nil {
		return err
	}
	path, fName := fm.GetTreeFilePathAndName(runID)
	return fm.Create(path, fName, &buf)
}

var (
	ErrTreeNotFound = E.New("task: fp tree not found")
	// ErrSupportBelowTree is returned when re-mining asks for a lower
	// support than the stored tree was built with.
	ErrSupportBelowTree = E.New("task: min support below stored tree support")
)

func loadTree(fm filestore.FileManager, runID string) (*fptree.Tree, error) {
	path, fName := fm.GetTreeFilePathAndName(runID)
	rc, err := fm.Get(path, fName)
	if os.IsNotExist(err) {
		return nil, E.Wrapf(ErrTreeNotFound, "run %s", runID)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return fptree.ReadTree(rc)
}

// MineStoredTree re-mines the fp tree dumped by run parentID with params
// and stores the outcome as a new run. The dataset is not read again.
func MineStoredTree(fm filestore.FileManager, rs *store.ResultStore, parentID string,
	params pattern.Params) (*store.Run, error) {
	logCtx := log.WithFields(log.Fields{"parent_run_id": parentID, "min_support": params.MinSupport})

	parent, err := rs.Get(parentID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load parent run.")
		return nil, err
	}
	if len(parent.Results) == 0 {
		return nil, E.Wrapf(ErrTreeNotFound, "run %s has no results", parentID)
	}
	base := parent.Results[0]
	if params.MinSupport < base.MinSupport {
		return nil, E.Wrapf(ErrSupportBelowTree, "%v < %v", params.MinSupport, base.MinSupport)
	}

	tree, err := loadTree(fm, parentID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read fp tree.")
		return nil, err
	}
	res, err := pattern.MineFPTree(tree, base.Transactions, params)
	if err != nil {
		return nil, err
	}

	run := &store.Run{
		Dataset:     parent.Dataset,
		ParentRunID: parentID,
		Stats:       parent.Stats,
		Results:     []pattern.Result{res},
	}
	if _, err := rs.Put(run); err != nil {
		return nil, err
	}
	logCtx.WithField("run_id", run.ID).Info("Stored tree mined.")
	return run, nil
}
