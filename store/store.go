package store

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"basketminer/filestore"
	U "basketminer/util"

	cache "github.com/hashicorp/golang-lru"
	E "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	ErrRunNotFound  = E.New("store: run not found")
	ErrInvalidRunID = E.New("store: invalid run id")
)

// ResultStore persists runs as JSON through a FileManager and keeps the
// most recently used ones in memory.
type ResultStore struct {
	fileManager filestore.FileManager
	runCache    *cache.Cache
}

func New(cacheSize int, fm filestore.FileManager) (*ResultStore, error) {
	runCache, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ResultStore{fileManager: fm, runCache: runCache}, nil
}

// Put assigns an id and creation time when missing and writes the run.
func (rs *ResultStore) Put(run *Run) (string, error) {
	if run.ID == "" {
		run.ID = U.GetUUID()
	} else if !U.IsValidUUID(run.ID) {
		return "", E.Wrapf(ErrInvalidRunID, "%q", run.ID)
	}
	if run.CreatedAt == "" {
		run.CreatedAt = U.TimeNowZ()
	}
	logCtx := log.WithFields(log.Fields{"run_id": run.ID})

	start := time.Now()
	data, err := json.Marshal(run)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal run.")
		return "", err
	}
	path, fName := rs.fileManager.GetRunFilePathAndName(run.ID)
	if err := rs.fileManager.Create(path, fName, bytes.NewReader(data)); err != nil {
		logCtx.WithError(err).Error("Failed to write run.")
		return "", E.Wrap(err, "store: writing run")
	}
	rs.runCache.Add(run.ID, run)
	logCtx.WithFields(log.Fields{
		"bytes": len(data),
		"ms":    time.Since(start).Milliseconds(),
	}).Debug("[ResultStore] Put")
	return run.ID, nil
}

// Get returns the run from cache, falling back to the file manager.
func (rs *ResultStore) Get(id string) (*Run, error) {
	if !U.IsValidUUID(id) {
		return nil, E.Wrapf(ErrInvalidRunID, "%q", id)
	}
	if cached, ok := rs.runCache.Get(id); ok {
		if run, ok := cached.(*Run); ok {
			return run, nil
		}
	}

	logCtx := log.WithFields(log.Fields{"run_id": id})
	path, fName := rs.fileManager.GetRunFilePathAndName(id)
	rc, err := rs.fileManager.Get(path, fName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, E.Wrapf(ErrRunNotFound, "%s", id)
		}
		logCtx.WithError(err).Error("Failed to open run.")
		return nil, err
	}
	defer rc.Close()

	var run Run
	if err := json.NewDecoder(rc).Decode(&run); err != nil {
		logCtx.WithError(err).Error("Failed to decode run.")
		return nil, E.Wrap(err, "store: decoding run")
	}
	rs.runCache.Add(id, &run)
	logCtx.Debug("[ResultStore] loaded from file manager")
	return &run, nil
}

// Cached reports whether id is currently held in memory.
func (rs *ResultStore) Cached(id string) bool {
	return rs.runCache.Contains(id)
}
