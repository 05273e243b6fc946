package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	C "basketminer/config"
	"basketminer/pattern"
	"basketminer/rules"
	"basketminer/services/disk"
	"basketminer/store"

	"github.com/gin-gonic/gin"
	E "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marketTransactions = [][]string{
	{"milk", "bread"},
	{"bread", "diaper", "beer", "juice"},
	{"milk", "diaper", "beer", "wings"},
	{"bread", "milk", "diaper", "beer"},
	{"bread", "milk", "diaper", "wings"},
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dir, err := ioutil.TempDir("", "basketminer-handler")
	require.Nil(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	rs, err := store.New(8, disk.New(dir))
	require.Nil(t, err)
	r := gin.New()
	InitRoutes(r, rs)
	return r
}

func sendRequest(r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeRun(t *testing.T, w *httptest.ResponseRecorder) store.Run {
	var run store.Run
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &run))
	return run
}

func TestStatus(t *testing.T) {
	r := setupRouter(t)
	w := sendRequest(r, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMineAndFetchRun(t *testing.T) {
	r := setupRouter(t)
	w := sendRequest(r, http.MethodPost, "/v1/mine", map[string]interface{}{
		"transactions":   marketTransactions,
		"algorithm":      "apriori",
		"min_support":    0.3,
		"min_confidence": 0.7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run := decodeRun(t, w)
	require.Len(t, run.Results, 1)
	assert.Equal(t, pattern.AlgorithmApriori, run.Results[0].Algorithm)
	assert.Len(t, run.Results[0].Itemsets, 17)
	assert.Len(t, run.Results[0].Rules, 15)
	assert.Empty(t, run.Differences)

	w = sendRequest(r, http.MethodGet, "/v1/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeRun(t, w)
	assert.Equal(t, run.ID, fetched.ID)
	assert.Equal(t, run.Results[0].Itemsets, fetched.Results[0].Itemsets)
}

func TestMineUsesConfiguredDefaults(t *testing.T) {
	r := setupRouter(t)
	w := sendRequest(r, http.MethodPost, "/v1/mine", map[string]interface{}{
		"transactions": marketTransactions,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run := decodeRun(t, w)
	assert.Equal(t, pattern.AlgorithmFPGrowth, run.Results[0].Algorithm)
	assert.Equal(t, 0.3, run.Results[0].MinSupport)
	assert.Len(t, run.Results[0].Itemsets, 17)
}

func TestCompare(t *testing.T) {
	r := setupRouter(t)
	w := sendRequest(r, http.MethodPost, "/v1/compare", map[string]interface{}{
		"transactions":   marketTransactions,
		"min_support":    0.3,
		"min_confidence": 0.7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run := decodeRun(t, w)
	require.Len(t, run.Results, 2)
	assert.Empty(t, run.Differences)
	assert.Equal(t, run.Results[0].Itemsets, run.Results[1].Itemsets)
}

func TestMineErrors(t *testing.T) {
	r := setupRouter(t)
	tests := []struct {
		name    string
		url     string
		payload interface{}
		status  int
	}{
		{"zero support", "/v1/mine", map[string]interface{}{"transactions": marketTransactions, "min_support": 0}, http.StatusBadRequest},
		{"support above one", "/v1/compare", map[string]interface{}{"transactions": marketTransactions, "min_support": 1.5}, http.StatusBadRequest},
		{"bad confidence", "/v1/mine", map[string]interface{}{"transactions": marketTransactions, "min_confidence": -1}, http.StatusBadRequest},
		{"empty database", "/v1/mine", map[string]interface{}{"transactions": [][]string{}}, http.StatusBadRequest},
		{"unknown algorithm", "/v1/mine", map[string]interface{}{"transactions": marketTransactions, "algorithm": "eclat"}, http.StatusBadRequest},
		{"negative tolerance", "/v1/compare", map[string]interface{}{"transactions": marketTransactions, "tolerance": -0.1}, http.StatusBadRequest},
		{"bad json", "/v1/mine", "transactions", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sendRequest(r, http.MethodPost, tt.url, tt.payload)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestGetRunErrors(t *testing.T) {
	r := setupRouter(t)
	w := sendRequest(r, http.MethodGet, "/v1/runs/not-a-run", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(r, http.MethodGet, "/v1/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTruncateRules(t *testing.T) {
	res := pattern.Result{Rules: make([]rules.Rule, 5)}
	run := &store.Run{Results: []pattern.Result{res}}
	assert.Same(t, run, truncateRules(run, 0))
	out := truncateRules(run, 2)
	assert.Len(t, out.Results[0].Rules, 2)
	assert.Len(t, run.Results[0].Rules, 5)
}

func wideBaskets(width, copies int) [][]string {
	items := make([]string, 0, width)
	for i := 0; i < width; i++ {
		items = append(items, fmt.Sprintf("item%02d", i))
	}
	rows := make([][]string, 0, copies)
	for i := 0; i < copies; i++ {
		rows = append(rows, items)
	}
	return rows
}

func TestMineBoundsItemsetLength(t *testing.T) {
	r := setupRouter(t)
	rows := wideBaskets(14, 3)

	// without max_length the configured ceiling of 4 applies: 14+91+364+1001
	w := sendRequest(r, http.MethodPost, "/v1/mine", map[string]interface{}{
		"transactions": rows, "min_support": 1, "min_confidence": 0.9,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	run := decodeRun(t, w)
	assert.Len(t, run.Results[0].Itemsets, 1470)
	assert.Equal(t, C.DefaultConfiguration.MaxItemsetSize, run.Results[0].MaxLength)

	w = sendRequest(r, http.MethodPost, "/v1/compare", map[string]interface{}{
		"transactions": rows, "min_support": 1, "min_confidence": 0.9, "max_length": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	run = decodeRun(t, w)
	require.Len(t, run.Results, 2)
	assert.Empty(t, run.Differences)
	assert.Len(t, run.Results[0].Itemsets, 105)
	assert.Len(t, run.Results[1].Itemsets, 105)
	assert.Len(t, run.Results[1].Rules, 182)

	for _, maxLength := range []int{-1, 0, C.DefaultConfiguration.MaxItemsetSize + 1} {
		w = sendRequest(r, http.MethodPost, "/v1/mine", map[string]interface{}{
			"transactions": rows, "min_support": 1, "max_length": maxLength,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, maxLength)
	}

	w = sendRequest(r, http.MethodPost, "/v1/mine", map[string]interface{}{
		"transactions": wideBaskets(C.DefaultConfiguration.MaxBasketSize+1, 1),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCheckSize(t *testing.T) {
	conf := C.DefaultConfiguration
	conf.MaxTransactions = 2
	conf.MaxBasketSize = 3

	assert.Nil(t, MineRequest{Transactions: wideBaskets(3, 2)}.checkSize(&conf))

	err := MineRequest{Transactions: wideBaskets(1, 3)}.checkSize(&conf)
	assert.True(t, E.Is(err, ErrTooManyTransactions))
	assert.Equal(t, http.StatusRequestEntityTooLarge, errorStatus(err))

	err = MineRequest{Transactions: wideBaskets(4, 1)}.checkSize(&conf)
	assert.True(t, E.Is(err, ErrBasketTooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, errorStatus(err))
}

func TestSwaggerInDevelopment(t *testing.T) {
	conf := C.DefaultConfiguration
	require.Nil(t, C.InitConf(&conf))
	r := setupRouter(t)

	w := sendRequest(r, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/v1/mine")
	assert.Contains(t, w.Body.String(), "localhost:8080")
}
