package models

// CredentialsRequest carries a signup or login submission.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FeedbackRequest carries a feedback submission. Username is optional and
// only consulted when no session is active.
type FeedbackRequest struct {
	Username string `json:"username,omitempty"`
	Text     string `json:"text"`
}

// AnalysisRequest selects and shapes one dataset from the workspace:
// substring filter, contiguous row window, then column subset.
type AnalysisRequest struct {
	Dataset      string   `json:"dataset"`
	Rows         int      `json:"rows"`
	SearchColumn string   `json:"search_column,omitempty"`
	SearchValue  string   `json:"search_value,omitempty"`
	Offset       int      `json:"offset"`
	Columns      []string `json:"columns,omitempty"`
}

// ChartRequest asks for a chart over a workspace dataset (or the virtual
// last-analysis dataset). Pie uses X as the names column and Y as optional
// values; all other kinds use X/Y/Color as axis and grouping roles.
type ChartRequest struct {
	Dataset string `json:"dataset"`
	Kind    string `json:"kind"`
	X       string `json:"x"`
	Y       string `json:"y,omitempty"`
	Color   string `json:"color,omitempty"`
	Title   string `json:"title,omitempty"`
}

// UploadResult reports the outcome of one file in an upload batch.
type UploadResult struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows,omitempty"`
	Columns int    `json:"columns,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DatasetInfo describes one workspace entry for listing.
type DatasetInfo struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Virtual bool   `json:"virtual,omitempty"`
}
