package ticket

import "strings"

// IssueType is a member of the closed issue taxonomy. Every issue_type value
// exposed outside this package is one of the constants below.
type IssueType string

const (
	IssueUpdateStatus    IssueType = "update_status"
	IssueGeneralQuestion IssueType = "general_question"
	IssueDamagedItem     IssueType = "damaged_item"
	IssueLateDelivery    IssueType = "late_delivery"
	IssueWrongItem       IssueType = "wrong_item"
	IssueMissingRefund   IssueType = "missing_refund"
)

var allowedIssues = map[IssueType]bool{
	IssueUpdateStatus:    true,
	IssueGeneralQuestion: true,
	IssueDamagedItem:     true,
	IssueLateDelivery:    true,
	IssueWrongItem:       true,
	IssueMissingRefund:   true,
}

// issueAliases maps classifier spellings seen in the wild onto taxonomy
// members. "shipping" and "general" both collapse to general_question.
var issueAliases = map[string]IssueType{
	"order_update":  IssueUpdateStatus,
	"status update": IssueUpdateStatus,
	"shipping":      IssueGeneralQuestion,
	"general":       IssueGeneralQuestion,
}

// NormalizeIssue maps an arbitrary raw classification onto the closed
// taxonomy. It is total: empty input, unknown values, and anything else
// outside the taxonomy collapse to general_question. This is the single
// point of truth for taxonomy membership; every value that originates from
// the reasoning service passes through here before it is trusted.
func NormalizeIssue(raw string) IssueType {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return IssueGeneralQuestion
	}
	if alias, ok := issueAliases[value]; ok {
		return alias
	}
	if allowedIssues[IssueType(value)] {
		return IssueType(value)
	}
	return IssueGeneralQuestion
}

// Ticket is the immutable input to one triage run.
type Ticket struct {
	Text    string // required, non-empty
	OrderID string // optional caller-supplied hint
	Query   string // optional free text
}

// Result is the outcome of a triage run. All five fields are always present
// in the JSON shape; every field except IssueType is nullable.
type Result struct {
	Reply          *string   `json:"reply"`
	IssueType      IssueType `json:"issue_type"`
	OrderID        *string   `json:"order_id"`
	Evidence       *string   `json:"evidence"`
	Recommendation *string   `json:"recommendation"`
}

// Literal fallbacks used when the drafting stage output is unparseable.
const (
	FallbackReply          = "Thank you, we are reviewing your request."
	FallbackRecommendation = "review_manually"
)
