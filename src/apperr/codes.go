package apperr

// Central application error code registry. Codes are grouped by the workflow
// they belong to; the RCM- prefix covers cross-cutting failures.
const (
	CodeUnknown      = "RCM-0000"
	CodeValidation   = "RCM-0001"
	CodeUnauthorized = "RCM-0002"
	CodeForbidden    = "RCM-0003"
	CodeNotFound     = "RCM-0004"

	CodeUnitNotVacant        = "MIN-1001"
	CodeOverlappingRequest   = "MIN-1002"
	CodeTemplateMissing      = "MIN-1003"
	CodeWelcomePackMissing   = "MIN-1004"
	CodeMoveInDateWindow     = "MIN-1005"
	CodeCommentsRequired     = "MIN-1006"
	CodeRemarksRequired      = "MIN-1007"
	CodeApprovalExpired      = "MIN-1008"
	CodeMoveInBadTransition  = "MIN-1009"
	CodeActualDateRequired   = "MIN-1010"
	CodeMoveOutBadTransition = "MOV-2001"
	CodeUnitNotLinked        = "MOV-2002"
	CodeRenewalBadTransition = "REN-3001"
	CodeRenewalExists        = "REN-3002"
	CodeActiveMoveOut        = "REN-3003"
	CodeRenewalReasonNeeded  = "REN-3004"
	CodeDocTypeNotAllowed    = "DOC-4001"
	CodeDocUploadFailed      = "DOC-4002"
)
