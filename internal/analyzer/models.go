package analyzer

// Config carries analyzer-side tuning forwarded untouched with every request.
type Config struct {
	MinShouldMatch   int `json:"minShouldMatch"`
	NumberOfLogLines int `json:"numberOfLogLines"`
}

type IndexLog struct {
	LogID    int64  `json:"logId"`
	LogLevel int    `json:"logLevel"`
	Message  string `json:"message"`
}

type IndexTestItem struct {
	ItemID int64      `json:"itemId"`
	Logs   []IndexLog `json:"logs"`
}

// GenerateClustersRq is the clustering round-trip request. ItemIDs is empty
// for a whole-launch generation and lists the re-clustered items otherwise.
type GenerateClustersRq struct {
	LaunchID         int64           `json:"launchId"`
	LaunchName       string          `json:"launchName"`
	Project          int64           `json:"project"`
	ItemIDs          []int64         `json:"itemIds,omitempty"`
	Items            []IndexTestItem `json:"items"`
	AnalyzerConfig   Config          `json:"analyzerConfig"`
	CleanNumbers     bool            `json:"cleanNumbers"`
	ForUpdate        bool            `json:"forUpdate"`
	NumberOfLogLines int             `json:"numberOfLogLines"`
}

// ClusterInfo is one cluster the analyzer found. A nil ClusterID means the
// entry has no stable cluster match and must be discarded.
type ClusterInfo struct {
	ClusterID      *int64  `json:"clusterId"`
	ClusterMessage string  `json:"clusterMessage"`
	LogIDs         []int64 `json:"logIds"`
	ItemIDs        []int64 `json:"itemIds,omitempty"`
}

type ClusterData struct {
	Project  int64         `json:"project"`
	LaunchID int64         `json:"launchId"`
	Clusters []ClusterInfo `json:"clusters"`
}
