package handler

import (
	"net/http"

	C "basketminer/config"
	"basketminer/itemset"
	mid "basketminer/middleware"
	"basketminer/pattern"
	"basketminer/store"
	"basketminer/support"

	"github.com/gin-gonic/gin"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MineRequest carries the transactions to mine. Omitted thresholds and
// algorithm fall back to the server configuration.
type MineRequest struct {
	Transactions  [][]string `json:"transactions"`
	Algorithm     string     `json:"algorithm"`
	MinSupport    *float64   `json:"min_support"`
	MinConfidence *float64   `json:"min_confidence"`
	MaxLength     *int       `json:"max_length"`
	// Tolerance only applies to /v1/compare.
	Tolerance float64 `json:"tolerance"`
}

var (
	ErrMaxLengthExceeded   = E.New("handler: max_length exceeds server limit")
	ErrTooManyTransactions = E.New("handler: too many transactions")
	ErrBasketTooLarge      = E.New("handler: basket exceeds server limit")
)

func currentConfig() *C.Configuration {
	if conf := C.GetConfig(); conf != nil {
		return conf
	}
	return &C.DefaultConfiguration
}

func (req MineRequest) params(conf *C.Configuration) (pattern.Params, error) {
	params := conf.MiningParams()
	if req.Algorithm != "" {
		algo, err := pattern.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return params, err
		}
		params.Algorithm = algo
	}
	if req.MinSupport != nil {
		params.MinSupport = *req.MinSupport
	}
	if req.MinConfidence != nil {
		params.MinConfidence = *req.MinConfidence
	}
	params.MaxLength = conf.MaxItemsetSize
	if req.MaxLength != nil {
		params.MaxLength = *req.MaxLength
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	if params.MaxLength == 0 || params.MaxLength > conf.MaxItemsetSize {
		return params, E.Wrapf(ErrMaxLengthExceeded, "max_length=%d, limit %d", params.MaxLength, conf.MaxItemsetSize)
	}
	return params, req.checkSize(conf)
}

// checkSize rejects requests beyond the configured transaction and basket
// ceilings.
func (req MineRequest) checkSize(conf *C.Configuration) error {
	if len(req.Transactions) > conf.MaxTransactions {
		return E.Wrapf(ErrTooManyTransactions, "%d, limit %d", len(req.Transactions), conf.MaxTransactions)
	}
	for i, tr := range req.Transactions {
		if len(tr) > conf.MaxBasketSize {
			return E.Wrapf(ErrBasketTooLarge, "transaction %d has %d items, limit %d", i, len(tr), conf.MaxBasketSize)
		}
	}
	return nil
}

func errorStatus(err error) int {
	switch {
	case E.Is(err, support.ErrInvalidThreshold),
		E.Is(err, support.ErrEmptyDatabase),
		E.Is(err, support.ErrInvalidMaxLength),
		E.Is(err, ErrMaxLengthExceeded),
		E.Is(err, pattern.ErrUnknownAlgorithm),
		E.Is(err, store.ErrInvalidRunID):
		return http.StatusBadRequest
	case E.Is(err, ErrTooManyTransactions),
		E.Is(err, ErrBasketTooLarge):
		return http.StatusRequestEntityTooLarge
	case E.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{"reqId": mid.GetRequestID(c)}).WithError(err).Error("Request failed.")
	}
	c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// truncateRules returns a copy of run whose results carry at most max rules.
func truncateRules(run *store.Run, max int) *store.Run {
	if max <= 0 {
		return run
	}
	out := *run
	out.Results = make([]pattern.Result, len(run.Results))
	for i, res := range run.Results {
		if len(res.Rules) > max {
			res.Rules = res.Rules[:max]
		}
		out.Results[i] = res
	}
	return &out
}

// MineHandler godoc
// @Summary Mines frequent itemsets and rules from the posted transactions with one engine.
// @Tags V1Api
// @Accept  json
// @Produce json
// @Param request body handler.MineRequest true "Transactions and thresholds"
// @Success 201 {string} json "store.Run"
// @Router /v1/mine [post]
func MineHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		conf := currentConfig()
		params, err := req.params(conf)
		if err != nil {
			abortWithError(c, err)
			return
		}

		result, err := pattern.Mine(itemset.NewDatabase(req.Transactions), params)
		if err != nil {
			abortWithError(c, err)
			return
		}
		run := &store.Run{Results: []pattern.Result{result}}
		if _, err := rs.Put(run); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, truncateRules(run, conf.MaxRules))
	}
}

// CompareHandler godoc
// @Summary Mines the posted transactions with both engines and reports where they disagree.
// @Tags V1Api
// @Accept  json
// @Produce json
// @Param request body handler.MineRequest true "Transactions, thresholds and tolerance"
// @Success 201 {string} json "store.Run"
// @Router /v1/compare [post]
func CompareHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		conf := currentConfig()
		params, err := req.params(conf)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if req.Tolerance < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "tolerance must not be negative"})
			return
		}

		db := itemset.NewDatabase(req.Transactions)
		results := make([]pattern.Result, 0, 2)
		for _, algo := range []pattern.Algorithm{pattern.AlgorithmApriori, pattern.AlgorithmFPGrowth} {
			params.Algorithm = algo
			result, err := pattern.Mine(db, params)
			if err != nil {
				abortWithError(c, err)
				return
			}
			results = append(results, result)
		}
		run := &store.Run{
			Results:     results,
			Differences: pattern.Compare(results[0], results[1], req.Tolerance),
		}
		if _, err := rs.Put(run); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, truncateRules(run, conf.MaxRules))
	}
}

// GetRunHandler godoc
// @Summary Fetches a stored run.
// @Tags V1Api
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {string} json "store.Run"
// @Router /v1/runs/{run_id} [get]
func GetRunHandler(rs *store.ResultStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := rs.Get(c.Param("run_id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, truncateRules(run, currentConfig().MaxRules))
	}
}

func StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
