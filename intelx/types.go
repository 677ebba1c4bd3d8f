package intelx

// Kind tags a job handle with the search family that produced it.
type Kind string

// Search families.
const (
	KindSearch    Kind = "search"
	KindPhonebook Kind = "phonebook"
	KindIdentity  Kind = "identity"
	KindExport    Kind = "export"
)

// minHandleLen is the upstream convention for error-sentinel handles: a
// submit response whose id is this short never names a real job.
const minHandleLen = 3

// Handle is the opaque token identifying a submitted job. The ID is never
// interpreted beyond the length floor check at submit time.
type Handle struct {
	ID   string
	Kind Kind
}

// Valid reports whether the handle passes the length floor.
func (h Handle) Valid() bool {
	return len(h.ID) > minHandleLen
}

// State classifies one poll round.
type State int

const (
	// StateContinue means the job may still produce records; the round's
	// record set may be empty while the job is computing.
	StateContinue State = iota
	// StateComplete means the upstream has no more records. Terminal.
	StateComplete
	// StateExpired means the handle is no longer valid or found upstream.
	// Terminal; any records carried are best effort.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateContinue:
		return "continue"
	case StateComplete:
		return "complete"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Outcome is the result of one poll call.
type Outcome struct {
	State   State
	Records []map[string]any
}

// stateFromStatus maps the upstream result status codes onto the three-state
// poll contract. 0 carries records (possibly none this round) with more to
// come, 3 means the job is still computing, 1 means drained, 2 means the id
// was not found. Anything unexpected is treated as expired so a session
// never spins on a status this client does not understand.
func stateFromStatus(status int) State {
	switch status {
	case 0, 3:
		return StateContinue
	case 1:
		return StateComplete
	case 2:
		return StateExpired
	default:
		return StateExpired
	}
}

// SearchRequest is the body of an intelligent search submission. Field
// names match the upstream wire contract exactly.
type SearchRequest struct {
	Term        string   `json:"term"`
	Buckets     []string `json:"buckets"`
	LookupLevel int      `json:"lookuplevel"`
	MaxResults  int      `json:"maxresults"`
	Timeout     int      `json:"timeout"`
	DateFrom    string   `json:"datefrom"`
	DateTo      string   `json:"dateto"`
	Sort        int      `json:"sort"`
	Media       int      `json:"media"`
	Terminate   []string `json:"terminate"`
}

// PhonebookRequest is a search submission against the phonebook family.
// Target filters the selector category: 0 all, 1 domains, 2 emails, 3 urls.
type PhonebookRequest struct {
	SearchRequest
	Target int `json:"target"`
}

// IdentityRequest parameterizes an identity (breach) search submission.
type IdentityRequest struct {
	Term       string
	MaxResults int
	Buckets    []string
	Timeout    int
	DateFrom   string
	DateTo     string
	Terminate  []string
}

// ExportRequest parameterizes an account credential export.
type ExportRequest struct {
	Selector  string
	Bucket    string
	Limit     int
	DateFrom  string
	DateTo    string
	Terminate []string
}

// submitResponse is the reply to every submit-style call.
type submitResponse struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
}

// Submit status codes.
const (
	submitStatusInvalidTerm = 1
	submitStatusRejected    = 2
)

// pollResponse is the reply to every result-poll call.
type pollResponse struct {
	Status  int              `json:"status"`
	Records []map[string]any `json:"records"`
}

// PreviewRequest parameterizes a file content preview.
type PreviewRequest struct {
	StorageID   string
	Bucket      string
	Format      int
	Lines       int
	ContentType int
	MediaType   int
}

// ViewRequest parameterizes a full file view.
type ViewRequest struct {
	StorageID string
	Bucket    string
	Format    int
}

// ReadRequest parameterizes a raw file read.
type ReadRequest struct {
	SystemID string
	Bucket   string
	Type     int
	Name     string
}
