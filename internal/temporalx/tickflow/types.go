package tickflow

const (
	WorkflowName  = "campaign_tick"
	ActivityBatch = "campaign_tick_batch"
)

// BatchSummary is the activity result recorded in workflow history.
type BatchSummary struct {
	Listed   int `json:"listed"`
	Claimed  int `json:"claimed"`
	Lost     int `json:"lost"`
	Skipped  int `json:"skipped"`
	Advanced int `json:"advanced"`
	Paused   int `json:"paused"`
	Failed   int `json:"failed"`
	Posts    int `json:"posts"`
}
