package resolution

import (
	"errors"
	"fmt"
)

// Persisted outputs, as named in errors and logs.
const (
	PartitionResolved   = "resolved cases"
	PartitionUnresolved = "unresolved cases"
	PartitionPatterns   = "pattern log"
)

var (
	// ErrNilClassifier is returned when a pipeline is built without a classifier.
	ErrNilClassifier = errors.New("classifier is required")
	// ErrNilStore is returned when a pipeline is built without a pattern store.
	ErrNilStore = errors.New("pattern store is required")
	// ErrNilSink is returned when a pipeline is built without an output sink.
	ErrNilSink = errors.New("output sink is required")
)

// PersistError reports an output that could not be written.
type PersistError struct {
	Err       error
	Partition string
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Partition, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// FailedPartitions lists the partitions named by the PersistErrors in err.
func FailedPartitions(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else if err != nil {
		errs = []error{err}
	}

	var partitions []string
	for _, e := range errs {
		var pe *PersistError
		if errors.As(e, &pe) {
			partitions = append(partitions, pe.Partition)
		}
	}
	return partitions
}
