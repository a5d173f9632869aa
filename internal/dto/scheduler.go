package dto

// SweepResult summarises one absent-marking sweep invocation.
type SweepResult struct {
	Ran     bool   `json:"ran"`
	Forced  bool   `json:"forced"`
	Date    string `json:"date,omitempty"`
	Marked  int    `json:"marked"`
	Skipped string `json:"skipped,omitempty"`
}
