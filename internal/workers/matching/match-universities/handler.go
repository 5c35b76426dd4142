// internal/workers/matching/match-universities/handler.go
package matchuniversities

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"counsel-workers/internal/catalog"
	cerrors "counsel-workers/internal/common/errors"
	"counsel-workers/internal/common/logger"
	"counsel-workers/internal/common/metrics"
	"counsel-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "match-universities"
)

// budgetCeilings resolves a budget-range bucket to the tuition ceiling used
// for the budget-fit factor. Unknown buckets resolve to defaultBudgetCeiling.
var budgetCeilings = map[string]int{
	"0-20000":     20000,
	"20000-35000": 35000,
	"35000-50000": 50000,
	"50000+":      100000,
}

const defaultBudgetCeiling = 50000

// defaultGPA stands in for an absent or unparseable GPA when computing gaps.
const defaultGPA = 3.0

// gpaGapTiers is the ordered gap→points table. First tier whose floor the
// gap reaches wins; a gap below every floor scores gpaGapPenalty.
var gpaGapTiers = []struct {
	minGap float64
	points int
}{
	{0.3, 20},
	{0, 10},
	{-0.2, 5},
}

const gpaGapPenalty = -10

// categoryBonus biases the sort toward actionable matches without excluding
// dream schools.
var categoryBonus = map[string]int{
	catalog.CategoryTarget: 10,
	catalog.CategorySafe:   5,
	catalog.CategoryDream:  0,
}

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, cerrors.ErrCodeParseError, fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, cerrors.ErrCodeMatchScoreFailed, err.Error())
		return
	}

	metrics.UniversitiesMatched.Observe(float64(len(output.Matches)))
	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile := input.Profile
	if profile == nil && input.UserID != "" {
		fetched, err := h.getUserProfile(ctx, input.UserID)
		if err != nil {
			h.logger.Warn("failed to fetch user profile", map[string]interface{}{
				"userId": input.UserID,
				"error":  err,
			})
		} else {
			profile = fetched
		}
	}
	if profile == nil {
		profile = &models.UserProfile{}
	}

	universities := input.Universities
	if len(universities) == 0 {
		universities = catalog.All()
	}

	matches := make([]models.UniversityMatch, 0, len(universities))
	for _, u := range universities {
		matches = append(matches, h.scoreUniversity(u, profile))
	}

	// Stable: equal scores keep catalog order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	h.logger.Info("universities matched", map[string]interface{}{
		"userId": input.UserID,
		"count":  len(matches),
	})

	return &Output{Matches: matches}, nil
}

func (h *Handler) scoreUniversity(u catalog.University, profile *models.UserProfile) models.UniversityMatch {
	score := 0

	countryMatch := profile.TargetCountry != "" && u.Country == profile.TargetCountry
	if countryMatch {
		score += 30
	}

	ceiling, ok := budgetCeilings[profile.BudgetRange]
	if !ok {
		ceiling = defaultBudgetCeiling
	}
	withinBudget := u.TuitionUSD <= ceiling
	if withinBudget {
		score += 25
	} else {
		score -= 10
		if u.Scholarships {
			score += 5
		}
	}

	gap := models.ParseGPA(profile.GPA, defaultGPA) - u.RequiredGPA
	score += gpaGapPoints(gap)

	programMatch := h.programMatches(u, profile)
	if programMatch {
		score += 15
	}
	score += categoryBonus[u.Category]

	likelihood := h.acceptanceLikelihood(u.AcceptanceRate, gap)
	risk := riskLevel(u.Category, likelihood)
	reason := matchReason(u, countryMatch, withinBudget, likelihood)

	return models.UniversityMatch{
		UniversityID:         u.ID,
		Name:                 u.Name,
		Country:              u.Country,
		City:                 u.City,
		Category:             u.Category,
		Ranking:              u.Ranking,
		TuitionUSD:           u.TuitionUSD,
		MatchScore:           score,
		MatchReason:          reason,
		AcceptanceLikelihood: likelihood,
		RiskLevel:            risk,
	}
}

func gpaGapPoints(gap float64) int {
	for _, tier := range gpaGapTiers {
		if gap >= tier.minGap {
			return tier.points
		}
	}
	return gpaGapPenalty
}

func (h *Handler) programMatches(u catalog.University, profile *models.UserProfile) bool {
	if profile.TargetDegree == "" || len(u.Programs) == 0 {
		return false
	}
	programs := strings.ToLower(strings.Join(u.Programs, ", "))
	return strings.Contains(programs, strings.ToLower(profile.TargetDegree))
}

// acceptanceLikelihood classifies admission odds by acceptance-rate tier,
// each tier with its own GPA-gap cut points. Selective schools never
// classify as High regardless of GPA surplus.
func (h *Handler) acceptanceLikelihood(acceptanceRate, gap float64) string {
	switch {
	case acceptanceRate < h.config.selectiveBelow():
		if gap >= 0.3 {
			return models.LikelihoodMedium
		}
		return models.LikelihoodLow
	case acceptanceRate < h.config.moderateBelow():
		switch {
		case gap >= 0.2:
			return models.LikelihoodHigh
		case gap >= 0:
			return models.LikelihoodMedium
		default:
			return models.LikelihoodLow
		}
	default:
		switch {
		case gap >= 0:
			return models.LikelihoodHigh
		case gap >= -0.2:
			return models.LikelihoodMedium
		default:
			return models.LikelihoodLow
		}
	}
}

// riskLevel follows the category: dream is always High risk and safe always
// Low, while target derives from the acceptance likelihood.
func riskLevel(category, likelihood string) string {
	switch category {
	case catalog.CategoryDream:
		return models.RiskHigh
	case catalog.CategorySafe:
		return models.RiskLow
	default:
		switch likelihood {
		case models.LikelihoodHigh:
			return models.RiskLow
		case models.LikelihoodMedium:
			return models.RiskMedium
		default:
			return models.RiskHigh
		}
	}
}

// matchReason builds the human-readable rationale from the applicable
// clauses in fixed order.
func matchReason(u catalog.University, countryMatch, withinBudget bool, likelihood string) string {
	var clauses []string

	if countryMatch {
		clauses = append(clauses, "Located in your target country")
	}
	if withinBudget {
		clauses = append(clauses, "Tuition fits your budget")
	} else {
		clauses = append(clauses, "Tuition exceeds your budget")
	}
	if u.Scholarships {
		clauses = append(clauses, "Scholarships available")
	}

	switch likelihood {
	case models.LikelihoodHigh:
		clauses = append(clauses, "Strong chance of acceptance")
	case models.LikelihoodMedium:
		clauses = append(clauses, "Moderate chance of acceptance")
	default:
		clauses = append(clauses, "Admission will be competitive")
	}

	if u.Ranking > 0 && u.Ranking <= 20 {
		clauses = append(clauses, "Ranked in the global top 20")
	}

	return strings.Join(clauses, ". ")
}

func (h *Handler) getUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	cacheKey := "user:profile:" + userID
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.UserProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	if h.db == nil {
		return nil, fmt.Errorf("no database configured")
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT user_id, gpa, target_degree, target_country, budget_range,
		       funding_source, exam_status, sop_status, onboarding_complete
		FROM user_profiles WHERE user_id = $1`, userID)

	var profile models.UserProfile
	err := row.Scan(&profile.UserID, &profile.GPA, &profile.TargetDegree,
		&profile.TargetCountry, &profile.BudgetRange, &profile.FundingSource,
		&profile.ExamStatus, &profile.SOPStatus, &profile.OnboardingComplete)
	if err != nil {
		return nil, err
	}

	if h.redis != nil {
		data, _ := json.Marshal(profile)
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}

	return &profile, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode cerrors.ErrorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errorCode)).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    string(errorCode),
		"errorMessage": errorMessage,
		"retryable":    cerrors.IsRetryable(errorCode),
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(string(errorCode)).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
