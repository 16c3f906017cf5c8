package model

// SkillMeta is the static consequence profile for a known skill name.
type SkillMeta struct {
	Severity      GapSeverity
	Urgency       GapUrgency
	DaysToAddress int
	Blocks        []string
	Reason        string
	Impact        string
}

// skillMetadata maps skill names to their fixed consequence attributes.
// Matching is exact; misspelled or generated names fall through to the
// default profile.
var skillMetadata = map[string]SkillMeta{
	"Recursion": {
		Severity:      SeverityCritical,
		Urgency:       UrgencyImmediate,
		DaysToAddress: 7,
		Blocks:        []string{"Binary Trees", "Graph Traversal", "Dynamic Programming"},
		Reason:        "Recursion underpins most tree and graph algorithms covered later in the course.",
		Impact:        "Without it, upcoming units on trees and backtracking will be inaccessible.",
	},
	"Pointers": {
		Severity:      SeverityCritical,
		Urgency:       UrgencyImmediate,
		DaysToAddress: 7,
		Blocks:        []string{"Linked Lists", "Memory Management"},
		Reason:        "Pointer semantics are assumed by every data-structure assignment.",
		Impact:        "Segfault debugging and list manipulation will stay out of reach.",
	},
	"Big-O Analysis": {
		Severity:      SeverityModerate,
		Urgency:       UrgencyHigh,
		DaysToAddress: 14,
		Blocks:        []string{"Algorithm Design"},
		Reason:        "Complexity analysis is required to justify algorithm choices in later work.",
		Impact:        "Exam questions on efficiency trade-offs will be guesswork.",
	},
	"Hash Tables": {
		Severity:      SeverityModerate,
		Urgency:       UrgencyHigh,
		DaysToAddress: 10,
		Blocks:        []string{"Caching", "Database Indexing"},
		Reason:        "Hashing appears in most interview-style problems from unit four onward.",
		Impact:        "Lookup-heavy problems will default to quadratic solutions.",
	},
	"Binary Trees": {
		Severity:      SeverityModerate,
		Urgency:       UrgencyMedium,
		DaysToAddress: 14,
		Blocks:        []string{"Balanced Trees", "Heaps"},
		Reason:        "Tree traversal patterns recur across the data-structures track.",
		Impact:        "Heap and BST assignments will compound the gap.",
	},
	"SQL Joins": {
		Severity:      SeverityModerate,
		Urgency:       UrgencyMedium,
		DaysToAddress: 14,
		Blocks:        []string{"Query Optimization"},
		Reason:        "Multi-table queries are the baseline for the database project.",
		Impact:        "The course project's reporting milestones depend on joins.",
	},
	"Normalization": {
		Severity:      SeverityManageable,
		Urgency:       UrgencyMedium,
		DaysToAddress: 21,
		Blocks:        []string{},
		Reason:        "Schema design quality is graded but not a prerequisite for later units.",
		Impact:        "Project schemas may lose design-quality marks.",
	},
	"Probability Basics": {
		Severity:      SeverityCritical,
		Urgency:       UrgencyHigh,
		DaysToAddress: 10,
		Blocks:        []string{"Bayesian Inference", "Hypothesis Testing"},
		Reason:        "Every statistics unit builds directly on probability rules.",
		Impact:        "Later inference material will not be recoverable without it.",
	},
	"Matrix Operations": {
		Severity:      SeverityModerate,
		Urgency:       UrgencyHigh,
		DaysToAddress: 14,
		Blocks:        []string{"Linear Transformations", "Eigenvalues"},
		Reason:        "Matrix fluency is assumed in the machine-learning module.",
		Impact:        "Gradient and transformation topics will stall.",
	},
	"Derivatives": {
		Severity:      SeverityCritical,
		Urgency:       UrgencyImmediate,
		DaysToAddress: 7,
		Blocks:        []string{"Integrals", "Optimization"},
		Reason:        "Differentiation is the entry point for the rest of calculus.",
		Impact:        "Integration and optimization units cannot start.",
	},
}

const (
	defaultReason = "This skill was flagged by your assessment but has no curated profile yet."
	defaultImpact = "Progress in dependent topics may be slower than expected."
)

// DefaultSkillMeta is the profile applied to skill names absent from the
// table: manageable, low urgency, 30 days, no blocked skills.
func DefaultSkillMeta() SkillMeta {
	return SkillMeta{
		Severity:      SeverityManageable,
		Urgency:       UrgencyLow,
		DaysToAddress: 30,
		Blocks:        []string{},
		Reason:        defaultReason,
		Impact:        defaultImpact,
	}
}

// LookupSkillMeta returns the metadata for a skill name and whether the name
// was actually present in the table. Callers that care about unmatched names
// (for example AI-generated ones) can use the second return to surface a
// warning instead of silently treating the gap as low priority.
func LookupSkillMeta(skillName string) (SkillMeta, bool) {
	if meta, ok := skillMetadata[skillName]; ok {
		return meta, true
	}
	return DefaultSkillMeta(), false
}
