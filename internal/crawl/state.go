package crawl

// Phase is where a visitor's workspace is in the crawl workflow.
//
//	Idle     --submit-->  Crawling
//	Crawling --success--> Viewing(new session)
//	Crawling --failure--> back to Idle, or Viewing(previous) if one was selected
//	Idle/Viewing --view(id)--> Viewing(id)
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCrawling
	PhaseViewing
)

func (p Phase) String() string {
	switch p {
	case PhaseCrawling:
		return "crawling"
	case PhaseViewing:
		return "viewing"
	default:
		return "idle"
	}
}

// State is a snapshot of the workflow. SessionID is set only when viewing.
type State struct {
	Phase     Phase
	SessionID string
}
