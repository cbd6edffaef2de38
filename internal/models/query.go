// internal/models/query.go
package models

// Category is the closed set of topics a query can be routed to.
type Category string

const (
	CategoryCard            Category = "card"
	CategoryReimbursement   Category = "reimbursement"
	CategoryEnrollment      Category = "enrollment"
	CategoryForeignResident Category = "foreign_resident"
	CategoryAsylumSeeker    Category = "asylum_seeker"
	CategoryUrgentCare      Category = "urgent_care"
	CategoryPrimaryProvider Category = "primary_provider"
	CategoryPharmacy        Category = "pharmacy"
	CategorySpecialist      Category = "specialist"
	CategoryGeneral         Category = "general"
)

// Intent describes what the user is trying to accomplish.
type Intent string

const (
	IntentHowTo          Intent = "how_to"
	IntentObtainInfo     Intent = "obtain_info"
	IntentResolveProblem Intent = "resolve_problem"
	IntentUnderstand     Intent = "understand"
	IntentContact        Intent = "contact"
)

// Urgency is derived from keyword scanning, defaulting to low.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// RoutingPolicy decides whether classification trusts the static catalog
// or forces live retrieval.
type RoutingPolicy string

const (
	RoutingStaticCatalog RoutingPolicy = "static_catalog"
	RoutingForcedDynamic RoutingPolicy = "forced_dynamic"
	RoutingHybrid        RoutingPolicy = "hybrid"
)

// Classification is the result of analyzing one user query. It is created
// per turn and never persisted.
type Classification struct {
	IsTopicRelated bool     `json:"isTopicRelated"`
	Category       Category `json:"category"`
	Intent         Intent   `json:"intent"`
	Urgency        Urgency  `json:"urgency"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords,omitempty"`
}

// IsUrgent reports whether the urgency warrants the emergency notice.
func (c Classification) IsUrgent() bool {
	return c.Urgency == UrgencyUrgent || c.Urgency == UrgencyHigh
}

// UserProfile carries the caller-supplied context used for plan adaptation
// and cache key fingerprinting.
type UserProfile struct {
	Country string `json:"country,omitempty"`
	Status  string `json:"status,omitempty"` // insured, asylum_seeker, student, ...
	Age     int    `json:"age,omitempty"`
}

const (
	StatusAsylumSeeker = "asylum_seeker"
	StatusStudent      = "student"
)

// Fingerprint returns a stable string used as part of cache keys.
func (p UserProfile) Fingerprint() string {
	return p.Country + "|" + p.Status
}
