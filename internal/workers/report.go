package workers

import "fmt"

// BatchReport accumulates the outcome of one sweep. Sweeps collect failures
// and keep going; a single bad row never aborts the batch.
type BatchReport struct {
	Processed int
	Failed    int
	Errors    []string
}

func (r *BatchReport) Ok() {
	r.Processed++
}

func (r *BatchReport) Fail(err error) {
	r.Failed++
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

func (r *BatchReport) String() string {
	return fmt.Sprintf("processed=%d failed=%d", r.Processed, r.Failed)
}
