package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"basketminer/pattern"
	"basketminer/support"

	"github.com/evalphobia/logrus_sentry"
	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	DEVELOPMENT = "development"
	STAGING     = "staging"
	PRODUCTION  = "production"

	// Environment variables are read as BASKETMINER_<NAME>.
	EnvPrefix = "basketminer"
)

type Configuration struct {
	AppName         string  `yaml:"app_name" envconfig:"APP_NAME"`
	Env             string  `yaml:"env" envconfig:"ENV"`
	Port            int     `yaml:"port" envconfig:"PORT"`
	Algorithm       string  `yaml:"algorithm" envconfig:"ALGORITHM"`
	MinSupport      float64 `yaml:"min_support" envconfig:"MIN_SUPPORT"`
	MinConfidence   float64 `yaml:"min_confidence" envconfig:"MIN_CONFIDENCE"`
	DataDir         string  `yaml:"data_dir" envconfig:"DATA_DIR"`
	ResultCacheSize int     `yaml:"result_cache_size" envconfig:"RESULT_CACHE_SIZE"`
	// MaxRules caps the rules returned over HTTP, 0 means all.
	MaxRules int `yaml:"max_rules" envconfig:"MAX_RULES"`
	// Request ceilings for the HTTP api. MaxItemsetSize is also the
	// max_length used when a request leaves it out.
	MaxItemsetSize  int `yaml:"max_itemset_size" envconfig:"MAX_ITEMSET_SIZE"`
	MaxTransactions int `yaml:"max_transactions" envconfig:"MAX_TRANSACTIONS"`
	MaxBasketSize   int `yaml:"max_basket_size" envconfig:"MAX_BASKET_SIZE"`
	// Errors are reported to sentry when set.
	SentryDSN string `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
}

var DefaultConfiguration = Configuration{
	AppName:         "basketminer",
	Env:             DEVELOPMENT,
	Port:            8080,
	Algorithm:       string(pattern.AlgorithmFPGrowth),
	MinSupport:      0.3,
	MinConfidence:   0.7,
	DataDir:         "/usr/local/var/basketminer",
	ResultCacheSize: 64,
	MaxItemsetSize:  4,
	MaxTransactions: 100000,
	MaxBasketSize:   32,
}

var configuration *Configuration = nil

// Load builds a configuration from, in increasing precedence: defaults, the
// yaml file at path (skipped when empty), BASKETMINER_* environment
// variables and the non-zero fields of overrides.
func Load(path string, overrides *Configuration) (*Configuration, error) {
	conf := &Configuration{}
	if path != "" {
		if err := readConfigFile(path, conf); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, conf); err != nil {
		return nil, E.Wrap(err, "Failed to read environment")
	}
	if overrides != nil {
		if err := mergo.Merge(conf, *overrides, mergo.WithOverride); err != nil {
			return nil, E.Wrap(err, "Failed to apply overrides")
		}
	}
	if err := mergo.Merge(conf, DefaultConfiguration); err != nil {
		return nil, E.Wrap(err, "Failed to apply defaults")
	}
	return conf, nil
}

func readConfigFile(path string, conf *Configuration) error {
	configFileAbsPath, _ := filepath.Abs(path)
	logCtx := log.WithFields(log.Fields{
		"file": configFileAbsPath,
	})

	raw, err := ioutil.ReadFile(configFileAbsPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return err
	}
	if err := yaml.UnmarshalStrict(raw, conf); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal yaml")
		return err
	}
	logCtx.Info("Config File Loaded")
	return nil
}

func (c *Configuration) Validate() error {
	if c.Env != DEVELOPMENT && c.Env != STAGING && c.Env != PRODUCTION {
		return fmt.Errorf("env [ %s ] not recognised", c.Env)
	}
	if _, err := pattern.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if err := support.ValidateThreshold("min_support", c.MinSupport); err != nil {
		return err
	}
	if err := support.ValidateThreshold("min_confidence", c.MinConfidence); err != nil {
		return err
	}
	if c.ResultCacheSize <= 0 {
		return fmt.Errorf("result_cache_size must be positive, got %d", c.ResultCacheSize)
	}
	if c.MaxRules < 0 {
		return fmt.Errorf("max_rules must not be negative, got %d", c.MaxRules)
	}
	if c.MaxItemsetSize <= 0 || c.MaxTransactions <= 0 || c.MaxBasketSize <= 0 {
		return fmt.Errorf("max_itemset_size, max_transactions and max_basket_size must be positive")
	}
	return nil
}

// MiningParams turns the configured defaults into engine parameters.
func (c *Configuration) MiningParams() pattern.Params {
	algo, _ := pattern.ParseAlgorithm(c.Algorithm)
	return pattern.Params{
		Algorithm:     algo,
		MinSupport:    c.MinSupport,
		MinConfidence: c.MinConfidence,
	}
}

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func initSentryHook(dsn string) error {
	hook, err := logrus_sentry.NewSentryHook(dsn, []log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
	})
	if err != nil {
		return err
	}
	hook.Timeout = 2 * time.Second
	hook.StacktraceConfiguration.Enable = true
	log.AddHook(hook)
	return nil
}

// InitConf validates conf, makes it the process wide configuration and
// sets up logging.
func InitConf(conf *Configuration) error {
	if conf == nil {
		return fmt.Errorf("nil config")
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if conf.SentryDSN != "" {
		if err := initSentryHook(conf.SentryDSN); err != nil {
			log.WithError(err).Error("Failed to init sentry hook.")
			return err
		}
	}
	configuration = conf
	initLogging()
	log.WithFields(log.Fields{"app": conf.AppName, "env": conf.Env}).Info("Config initialized")
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func IsDevelopment() bool {
	return configuration != nil && strings.Compare(configuration.Env, DEVELOPMENT) == 0
}
