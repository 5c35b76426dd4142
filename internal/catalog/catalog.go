// internal/catalog/catalog.go

// Package catalog holds the static university reference data. The list is
// authored once and read-only at runtime; the category of each entry is an
// editorial tier assignment, never recomputed by scoring.
package catalog

// Category tiers a catalog entry is authored into.
const (
	CategoryDream  = "dream"
	CategoryTarget = "target"
	CategorySafe   = "safe"
)

// Requirements is the structured admission requirement set of an entry.
type Requirements struct {
	MinGPA         float64 `json:"minGPA,omitempty"`
	TOEFL          string  `json:"toefl,omitempty"`
	IELTS          string  `json:"ielts,omitempty"`
	GRE            string  `json:"gre,omitempty"`
	LORCount       int     `json:"lorCount,omitempty"`
	WorkExperience string  `json:"workExperience,omitempty"`
	SOPRequired    bool    `json:"sopRequired"`
}

// University is one immutable catalog record.
type University struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Country        string       `json:"country"`
	City           string       `json:"city"`
	Ranking        int          `json:"ranking,omitempty"` // 0 means unranked
	Category       string       `json:"category"`
	TuitionUSD     int          `json:"tuitionUsd"`
	AcceptanceRate float64      `json:"acceptanceRate"` // percentage, 0-100
	RequiredGPA    float64      `json:"requiredGpa"`
	Programs       []string     `json:"programs"`
	WhyFits        string       `json:"whyFits,omitempty"`
	Risks          string       `json:"risks,omitempty"`
	Scholarships   bool         `json:"scholarships"`
	Requirements   Requirements `json:"requirements"`
}

var universities = []University{
	{
		ID: "mit", Name: "Massachusetts Institute of Technology",
		Country: "USA", City: "Cambridge", Ranking: 1, Category: CategoryDream,
		TuitionUSD: 57986, AcceptanceRate: 4, RequiredGPA: 3.9,
		Programs:     []string{"Master of Science in Computer Science", "Master of Engineering", "MBA"},
		WhyFits:      "World-leading research output and unmatched industry network.",
		Risks:        "Single-digit acceptance rate; a near-perfect academic record is expected.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.9, TOEFL: "100+", IELTS: "7.5+", GRE: "325+", LORCount: 3, WorkExperience: "Research experience preferred", SOPRequired: true},
	},
	{
		ID: "stanford", Name: "Stanford University",
		Country: "USA", City: "Stanford", Ranking: 3, Category: CategoryDream,
		TuitionUSD: 58416, AcceptanceRate: 5, RequiredGPA: 3.9,
		Programs:     []string{"Master of Science in Computer Science", "MBA", "Master of Science in Data Science"},
		WhyFits:      "Silicon Valley placement and strong entrepreneurship culture.",
		Risks:        "Extremely competitive pool; GRE and research output weigh heavily.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.9, TOEFL: "100+", IELTS: "7.5+", GRE: "328+", LORCount: 3, SOPRequired: true},
	},
	{
		ID: "oxford", Name: "University of Oxford",
		Country: "UK", City: "Oxford", Ranking: 4, Category: CategoryDream,
		TuitionUSD: 45000, AcceptanceRate: 14, RequiredGPA: 3.8,
		Programs:     []string{"MSc Computer Science", "MSc Advanced Computer Science", "MBA"},
		WhyFits:      "One-year masters keeps total cost down for a top-5 school.",
		Risks:        "Course places are few; a first-class degree equivalent is the baseline.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.8, TOEFL: "110+", IELTS: "7.5+", GRE: "Not Required", LORCount: 3, SOPRequired: true},
	},
	{
		ID: "toronto", Name: "University of Toronto",
		Country: "Canada", City: "Toronto", Ranking: 21, Category: CategoryTarget,
		TuitionUSD: 42000, AcceptanceRate: 43, RequiredGPA: 3.5,
		Programs:     []string{"Master of Science in Applied Computing", "MEng", "MBA"},
		WhyFits:      "Strong AI research hub with generous post-study work rights.",
		Risks:        "Departmental cutoffs run well above the published minimum.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.5, TOEFL: "93+", IELTS: "7.0+", GRE: "Not Required", LORCount: 2, SOPRequired: true},
	},
	{
		ID: "tum", Name: "Technical University of Munich",
		Country: "Germany", City: "Munich", Ranking: 37, Category: CategoryTarget,
		TuitionUSD: 0, AcceptanceRate: 25, RequiredGPA: 3.3,
		Programs:     []string{"MSc Informatics", "MSc Data Engineering and Analytics", "MSc Robotics"},
		WhyFits:      "No tuition fees and excellent engineering reputation.",
		Risks:        "Aptitude assessment per program; German helps for daily life.",
		Scholarships: false,
		Requirements: Requirements{MinGPA: 3.3, TOEFL: "88+", IELTS: "6.5+", GRE: "Not Required", LORCount: 2, SOPRequired: true},
	},
	{
		ID: "nus", Name: "National University of Singapore",
		Country: "Singapore", City: "Singapore", Ranking: 8, Category: CategoryTarget,
		TuitionUSD: 38000, AcceptanceRate: 20, RequiredGPA: 3.5,
		Programs:     []string{"Master of Computing", "MSc Data Science and Machine Learning", "MBA"},
		WhyFits:      "Top-10 ranking with strong regional industry ties.",
		Risks:        "Popular programs close early; GRE strengthens borderline files.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.5, TOEFL: "90+", IELTS: "6.5+", GRE: "320+", LORCount: 2, SOPRequired: true},
	},
	{
		ID: "unimelb", Name: "University of Melbourne",
		Country: "Australia", City: "Melbourne", Ranking: 34, Category: CategoryTarget,
		TuitionUSD: 34000, AcceptanceRate: 70, RequiredGPA: 3.2,
		Programs:     []string{"Master of Information Technology", "Master of Data Science", "MBA"},
		WhyFits:      "Flexible entry pathways and a large international cohort.",
		Risks:        "Living costs in Melbourne add materially to the budget.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.2, TOEFL: "79+", IELTS: "6.5+", GRE: "Not Required", LORCount: 2, SOPRequired: true},
	},
	{
		ID: "asu", Name: "Arizona State University",
		Country: "USA", City: "Tempe", Ranking: 179, Category: CategorySafe,
		TuitionUSD: 32000, AcceptanceRate: 88, RequiredGPA: 3.0,
		Programs:     []string{"Master of Science in Computer Science", "MS Software Engineering", "MBA"},
		WhyFits:      "High acceptance rate with a well-regarded engineering school.",
		Risks:        "Large class sizes; assistantships are competitive.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 3.0, TOEFL: "80+", IELTS: "6.5+", GRE: "Not Required", LORCount: 2, SOPRequired: true},
	},
	{
		ID: "coventry", Name: "Coventry University",
		Country: "UK", City: "Coventry", Category: CategorySafe,
		TuitionUSD: 22000, AcceptanceRate: 85, RequiredGPA: 2.8,
		Programs:     []string{"MSc Computer Science", "MSc Data Science and Computational Intelligence"},
		WhyFits:      "Affordable UK option with practical, employer-linked courses.",
		Risks:        "Lower global ranking than other UK choices.",
		Scholarships: false,
		Requirements: Requirements{MinGPA: 2.8, IELTS: "6.0+", GRE: "Not Required", LORCount: 1, SOPRequired: true},
	},
	{
		ID: "deakin", Name: "Deakin University",
		Country: "Australia", City: "Geelong", Category: CategorySafe,
		TuitionUSD: 26000, AcceptanceRate: 77, RequiredGPA: 2.8,
		Programs:     []string{"Master of Information Technology", "Master of Data Science"},
		WhyFits:      "Generous entry requirements and strong student support.",
		Risks:        "Regional campus; fewer on-campus recruiter events.",
		Scholarships: true,
		Requirements: Requirements{MinGPA: 2.8, TOEFL: "79+", IELTS: "6.5+", GRE: "Not Required", LORCount: 1, SOPRequired: false},
	},
}

// All returns a copy of the catalog in authored order. Callers may reorder
// their copy freely.
func All() []University {
	out := make([]University, len(universities))
	copy(out, universities)
	return out
}

// ByID looks up a single entry.
func ByID(id string) (University, bool) {
	for _, u := range universities {
		if u.ID == id {
			return u, true
		}
	}
	return University{}, false
}

// Count returns the catalog size.
func Count() int {
	return len(universities)
}
