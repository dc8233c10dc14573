package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type SyncReportData struct {
	JobID     string
	Total     int
	Succeeded int
	Failed    int
	Failures  []SyncReportFailure
}

type SyncReportFailure struct {
	CustomerID string
	Errors     []string
}
