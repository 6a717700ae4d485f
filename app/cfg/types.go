package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	Port         string
	PageSize     int
	PollInterval int // seconds
	WorkerCount  int
	FeedsFile    string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
