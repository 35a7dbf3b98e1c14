package domain

import "fmt"

// OpResult is the structured outcome every settlement or finalization
// operation returns. Errors never cross that boundary raw: they are folded
// into a failed result so batch callers can aggregate outcomes.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK builds a successful result.
func OK(format string, args ...interface{}) OpResult {
	return OpResult{Success: true, Message: fmt.Sprintf(format, args...)}
}

// Fail builds a failed result.
func Fail(format string, args ...interface{}) OpResult {
	return OpResult{Success: false, Message: fmt.Sprintf(format, args...)}
}

// BatchItem is one entry of a batch report.
type BatchItem struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BatchReport aggregates per-item outcomes of a scheduler pass. A failed
// item never aborts the batch.
type BatchReport struct {
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// Record appends an item outcome and bumps the counters.
func (r *BatchReport) Record(id string, res OpResult) {
	r.Processed++
	if res.Success {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.Items = append(r.Items, BatchItem{ID: id, Success: res.Success, Message: res.Message})
}
