package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesFile            string
	Port                   string
	WorkerCount            int
	FeedRefreshMinutes     int
	SessionRefreshMinutes  int
	ScheduleRefreshMinutes int

	// Upstream endpoints
	HouseStatusURL    string
	SenateScheduleURL string
	PotusScheduleURL  string

	// Completion service
	AnthropicAPIKey string
	LLMModel        string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
