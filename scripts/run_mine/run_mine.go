package main

import (
	"flag"
	"os"
	"strings"

	C "basketminer/config"
	"basketminer/ingest"
	"basketminer/pattern"
	serviceDisk "basketminer/services/disk"
	"basketminer/store"
	T "basketminer/task"

	log "github.com/sirupsen/logrus"
)

// go run scripts/run_mine/run_mine.go --dataset=bakery.csv --algorithm=both --min_support=0.01 --min_confidence=0.5 --report
// go run scripts/run_mine/run_mine.go --from_tree=<run_id> --min_support=0.02
func main() {
	configFilePath := flag.String("config_filepath", "", "Optional yaml config file.")
	envFlag := flag.String("env", "", "")
	dataDir := flag.String("data_dir", "", "Root for datasets, runs, reports and trees.")
	datasetFlag := flag.String("dataset", "", "Dataset name under <data_dir>/datasets or a path.")
	formatFlag := flag.String("format", "long", "long (Transaction,Item csv) or baskets (one basket per line).")
	algorithmFlag := flag.String("algorithm", "", "apriori, fpgrowth or both.")
	minSupport := flag.Float64("min_support", 0, "")
	minConfidence := flag.Float64("min_confidence", 0, "")
	tolerance := flag.Float64("tolerance", 0, "Allowed support/confidence gap when comparing engines.")
	topItems := flag.Int("top_items", 15, "Number of hot items to log.")
	writeReport := flag.Bool("report", false, "Write an xlsx report next to the run.")
	dumpTree := flag.Bool("dump_tree", false, "Write the serialized fp tree next to the run.")
	maxLength := flag.Int("max_length", 0, "Largest itemset size to mine, 0 for no limit.")
	fromTree := flag.String("from_tree", "", "Re-mine the fp tree dumped by this run id instead of reading a dataset.")
	printText := flag.Bool("print", true, "Print the results to stdout.")
	flag.Parse()

	if *datasetFlag == "" && *fromTree == "" {
		log.Fatal("--dataset or --from_tree is required.")
	}
	algorithms := []pattern.Algorithm{}
	if strings.EqualFold(*algorithmFlag, "both") {
		algorithms = append(algorithms, pattern.AlgorithmApriori, pattern.AlgorithmFPGrowth)
		*algorithmFlag = ""
	}

	config, err := C.Load(*configFilePath, &C.Configuration{
		AppName:       "run_mine",
		Env:           *envFlag,
		DataDir:       *dataDir,
		Algorithm:     *algorithmFlag,
		MinSupport:    *minSupport,
		MinConfidence: *minConfidence,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to load config.")
	}
	if err := C.InitConf(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}
	params := config.MiningParams()
	params.MaxLength = *maxLength
	if len(algorithms) == 0 {
		algorithms = append(algorithms, params.Algorithm)
	}
	format, err := ingest.ParseFormat(*formatFlag)
	if err != nil {
		log.WithError(err).Fatal("Invalid format.")
	}

	diskManager := serviceDisk.New(config.DataDir)
	resultStore, err := store.New(config.ResultCacheSize, diskManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to create result store.")
	}

	if *fromTree != "" {
		run, err := T.MineStoredTree(diskManager, resultStore, *fromTree, params)
		if err != nil {
			log.WithError(err).Fatal("Mining stored tree failed.")
		}
		if *printText {
			if err := T.PrintRun(os.Stdout, run, nil); err != nil {
				log.WithError(err).Fatal("Failed to print results.")
			}
		}
		logRunStored(diskManager, run.ID)
		return
	}

	result, err := T.MineDataset(diskManager, resultStore, T.MineJob{
		Dataset:     *datasetFlag,
		Format:      format,
		Algorithms:  algorithms,
		Params:      params,
		Tolerance:   *tolerance,
		TopItems:    *topItems,
		WriteReport: *writeReport,
		DumpTree:    *dumpTree,
	})
	if err != nil {
		log.WithError(err).Fatal("Mining failed.")
	}

	if *printText {
		if err := T.PrintRun(os.Stdout, result.Run, result.TopItems); err != nil {
			log.WithError(err).Fatal("Failed to print results.")
		}
	}
	logRunStored(diskManager, result.Run.ID)
	if len(result.Run.Differences) > 0 {
		os.Exit(1)
	}
}

func logRunStored(dd *serviceDisk.DiskDriver, runID string) {
	path, fName := dd.GetRunFilePathAndName(runID)
	log.WithFields(log.Fields{"run_id": runID, "file": path + "/" + fName}).Info("Run stored.")
}
