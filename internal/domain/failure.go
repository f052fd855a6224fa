package domain

// CaseFailure represents a failed expectation as persisted for the viewer
type CaseFailure struct {
	CaseID      string `json:"case_id"`
	Function    string `json:"function"`
	FilePath    string `json:"file_path"`
	Line        int    `json:"line"`
	Expectation string `json:"expectation"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual,omitempty"`
	Message     string `json:"message,omitempty"`
	Resolved    bool   `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}
