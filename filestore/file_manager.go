package filestore

import (
	"io"
)

type FileManager interface {
	Create(dir, fileName string, reader io.Reader) error
	Get(path, fileName string) (io.ReadCloser, error)
	GetBucketName() string
	GetDatasetFilePathAndName(name string) (string, string)
	GetRunDir() string
	GetRunFilePathAndName(runID string) (string, string)
	GetReportFilePathAndName(runID string) (string, string)
	GetTreeFilePathAndName(runID string) (string, string)
}
