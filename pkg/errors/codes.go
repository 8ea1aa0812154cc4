package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every engine module.
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeInvalidParam   ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeValidation     ErrorCode = "COMMON_005"
	ErrCodeSerialization  ErrorCode = "COMMON_006"
	ErrCodeConfiguration  ErrorCode = "COMMON_007"
	ErrCodeNotImplemented ErrorCode = "COMMON_008"
)

// Timeline module error codes.
const (
	ErrCodeTimelineAnchorMissing ErrorCode = "TLN_001"
	ErrCodeTimelineRuleInvalid   ErrorCode = "TLN_002"
	ErrCodeTimelineTableInvalid  ErrorCode = "TLN_003"
)

// Workflow module error codes.
const (
	ErrCodeWorkflowCaseInvalid     ErrorCode = "WFL_001"
	ErrCodeWorkflowTemplateInvalid ErrorCode = "WFL_002"
	ErrCodeWorkflowCatalogInvalid  ErrorCode = "WFL_003"
)

// Treatment module error codes.
const (
	ErrCodeTreatmentThresholdInvalid ErrorCode = "TRT_001"
	ErrCodeTreatmentEventInvalid     ErrorCode = "TRT_002"
)

// Settlement module error codes.
const (
	ErrCodeSettlementAmountInvalid   ErrorCode = "SET_001"
	ErrCodeSettlementFeeOutOfRange   ErrorCode = "SET_002"
	ErrCodeSettlementCurrencyMixed   ErrorCode = "SET_003"
	ErrCodeSettlementOfferInvalid    ErrorCode = "SET_004"
)

// Bulk evaluation error codes.
const (
	ErrCodeBulkInputInvalid ErrorCode = "BLK_001"
	ErrCodeBulkShutdown     ErrorCode = "BLK_002"
)

// Aliases kept short for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeInvalidParam
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeInvalidParam:   "invalid parameter",
	ErrCodeNotFound:       "resource not found",
	ErrCodeConflict:       "resource conflict",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeConfiguration:  "invalid configuration",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeTimelineAnchorMissing: "required anchor date is missing",
	ErrCodeTimelineRuleInvalid:   "deadline rule is invalid",
	ErrCodeTimelineTableInvalid:  "deadline rule table is invalid",

	ErrCodeWorkflowCaseInvalid:     "case data is invalid",
	ErrCodeWorkflowTemplateInvalid: "task template is invalid",
	ErrCodeWorkflowCatalogInvalid:  "task template catalog is invalid",

	ErrCodeTreatmentThresholdInvalid: "gap threshold is invalid",
	ErrCodeTreatmentEventInvalid:     "treatment event is invalid",

	ErrCodeSettlementAmountInvalid: "settlement amount is invalid",
	ErrCodeSettlementFeeOutOfRange: "legal fee percentage is out of range",
	ErrCodeSettlementCurrencyMixed: "settlement amounts use mixed currencies",
	ErrCodeSettlementOfferInvalid:  "settlement offer is invalid",

	ErrCodeBulkInputInvalid: "bulk evaluation input is invalid",
	ErrCodeBulkShutdown:     "bulk evaluator is shutting down",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// callerFaultCodes is the set of codes that signal a caller contract violation
// rather than an engine defect.  These are never retryable: the same input
// produces the same rejection (the engine is a pure computation, free of
// transient conditions).
var callerFaultCodes = map[ErrorCode]bool{
	ErrCodeInvalidParam:              true,
	ErrCodeValidation:                true,
	ErrCodeNotFound:                  true,
	ErrCodeConflict:                  true,
	ErrCodeTimelineAnchorMissing:     true,
	ErrCodeWorkflowCaseInvalid:       true,
	ErrCodeTreatmentThresholdInvalid: true,
	ErrCodeTreatmentEventInvalid:     true,
	ErrCodeSettlementAmountInvalid:   true,
	ErrCodeSettlementFeeOutOfRange:   true,
	ErrCodeSettlementCurrencyMixed:   true,
	ErrCodeSettlementOfferInvalid:    true,
	ErrCodeBulkInputInvalid:          true,
}

// IsCallerFault returns true if the ErrorCode identifies a caller contract
// violation (bad input) as opposed to an internal engine failure.
func IsCallerFault(code ErrorCode) bool {
	return callerFaultCodes[code]
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
