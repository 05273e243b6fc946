package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"basketminer/filestore"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// This can be used as namespace
	// to differentiate files across multiple instances of DiskDriver
	// Analogus to bucket name
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir}
}

func MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (dd *DiskDriver) Create(path, fileName string, reader io.Reader) error {
	err := MkdirAll(path)
	if err != nil {
		log.WithError(err).Errorln("Failed to create dir")
		return err
	}

	// Written to a sibling temp file, then renamed into place.
	tmp, err := os.CreateTemp(path, "."+fileName+".*")
	if err != nil {
		return err
	}
	_, err = io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(path, fileName))
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	file, err := os.OpenFile(filepath.Join(path, fileName), os.O_RDONLY, 0444)
	return file, err
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}

// GetDatasetFilePathAndName resolves a dataset name. Names containing a
// path separator are used as given, bare names live under datasets/.
func (dd *DiskDriver) GetDatasetFilePathAndName(name string) (string, string) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return filepath.Dir(name), filepath.Base(name)
	}
	return filepath.Join(dd.baseDir, "datasets"), name
}

func (dd *DiskDriver) GetRunDir() string {
	return filepath.Join(dd.baseDir, "runs")
}

func (dd *DiskDriver) GetRunFilePathAndName(runID string) (string, string) {
	return dd.GetRunDir(), fmt.Sprintf("run_%s.json", runID)
}

func (dd *DiskDriver) GetReportFilePathAndName(runID string) (string, string) {
	return filepath.Join(dd.baseDir, "reports"), fmt.Sprintf("run_%s.xlsx", runID)
}

func (dd *DiskDriver) GetTreeFilePathAndName(runID string) (string, string) {
	return filepath.Join(dd.baseDir, "trees"), fmt.Sprintf("fptree_%s.txt", runID)
}
