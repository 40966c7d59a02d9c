package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	Port              string
	SubscriptionsFile string
	WorkerCount       int
	SchedulerInterval int
	RefreshInterval   int
	FetchTimeout      int
	FetchMirrors      []string
	InsertBatchSize   int
	RecentWindowDays  int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
