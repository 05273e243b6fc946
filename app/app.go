package main

import (
	"flag"
	"strconv"

	C "basketminer/config"
	H "basketminer/handler"
	mid "basketminer/middleware"
	"basketminer/services/disk"
	"basketminer/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --config_filepath=config.yaml --env=development --api_http_port=8080 --data_dir=/usr/local/var/basketminer
func main() {
	configFilePath := flag.String("config_filepath", "", "Optional yaml config file.")
	env := flag.String("env", "", "development, staging or production.")
	port := flag.Int("api_http_port", 0, "")
	dataDir := flag.String("data_dir", "", "Directory runs are stored under.")
	algorithm := flag.String("algorithm", "", "Default engine: apriori or fpgrowth.")
	minSupport := flag.Float64("min_support", 0, "Default support threshold in (0, 1].")
	minConfidence := flag.Float64("min_confidence", 0, "Default confidence threshold in (0, 1].")
	resultCacheSize := flag.Int("result_cache_size", 0, "Number of runs kept in memory.")
	maxRules := flag.Int("max_rules", 0, "Max rules per result in responses, 0 for all.")
	flag.Parse()

	config, err := C.Load(*configFilePath, &C.Configuration{
		AppName:         "basketminer_server",
		Env:             *env,
		Port:            *port,
		DataDir:         *dataDir,
		Algorithm:       *algorithm,
		MinSupport:      *minSupport,
		MinConfidence:   *minConfidence,
		ResultCacheSize: *resultCacheSize,
		MaxRules:        *maxRules,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to load config.")
	}
	// Initialize configs and connections.
	if err := C.InitConf(config); err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
	}

	diskManager := disk.New(config.DataDir)
	resultStore, err := store.New(config.ResultCacheSize, diskManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to create result store.")
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())

	// Initialize routes.
	H.InitRoutes(r, resultStore)

	log.WithFields(log.Fields{
		"port":     config.Port,
		"data_dir": diskManager.GetBucketName(),
	}).Info("Starting server.")
	if err := r.Run(":" + strconv.Itoa(C.GetConfig().Port)); err != nil {
		log.WithError(err).Fatal("Server stopped.")
	}
}
