package dto

// RosterReport is the reconciliation report returned by the roster upload.
// Row-level errors are collected here instead of aborting the batch.
type RosterReport struct {
	Success          bool     `json:"success" example:"true"`
	Message          string   `json:"message"`
	SuccessCount     int      `json:"success_count" example:"40"`
	ErrorCount       int      `json:"error_count" example:"2"`
	DeactivatedCount int      `json:"deactivated_count" example:"3"`
	Errors           []string `json:"errors,omitempty"`
}
