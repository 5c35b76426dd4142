// Package errors provides the standardized BPMN error codes thrown by the
// workers, plus the retry classification attached to them.
package errors

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"

	ErrCodeValidationError     ErrorCode = "VALIDATION_ERROR"
	ErrCodeStrengthFailed      ErrorCode = "PROFILE_STRENGTH_FAILED"
	ErrCodeMatchScoreFailed    ErrorCode = "MATCH_SCORE_FAILED"
	ErrCodeRecommendFailed     ErrorCode = "RECOMMEND_FAILED"
	ErrCodeStageResolveFailed  ErrorCode = "STAGE_RESOLVE_FAILED"
	ErrCodeTaskGenerateFailed  ErrorCode = "TASK_GENERATE_FAILED"
	ErrCodeTaskPersistFailed   ErrorCode = "TASK_PERSIST_FAILED"
	ErrCodeLockFailed          ErrorCode = "LOCK_FAILED"
	ErrCodeUnlockFailed        ErrorCode = "UNLOCK_FAILED"
	ErrCodeUnknownUniversity   ErrorCode = "UNKNOWN_UNIVERSITY"
	ErrCodeNotificationFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeMissingRecipient    ErrorCode = "MISSING_RECIPIENT"
	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout       ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound       ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeQueryExecutionError ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout        ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType    ErrorCode = "INVALID_QUERY_TYPE"
)

// IsRetryable reports whether a job failing with this code should be retried
// by the workflow engine. Infrastructure failures retry; everything the pure
// cores produce is deterministic, so their codes never do.
func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout,
		ErrCodeTaskPersistFailed, ErrCodeNotificationFailed:
		return true
	default:
		return false
	}
}

// RetriesFor returns the retry budget to attach to a BPMN error.
func RetriesFor(code ErrorCode) int32 {
	if IsRetryable(code) {
		return 2
	}
	return 0
}
