package parselyze

import (
	"github.com/parselyze/parselyze-go/internal/documents"
	"github.com/parselyze/parselyze-go/internal/domain"
	"github.com/parselyze/parselyze-go/internal/jobs"
	"github.com/parselyze/parselyze-go/internal/port"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

type (
	DocumentsClient = documents.Client
	JobsClient      = jobs.Client
	WebhookVerifier = webhook.Verifier

	Error = domain.Error

	FileSource        = domain.FileSource
	ParseRequest      = domain.ParseRequest
	AsyncParseRequest = domain.AsyncParseRequest

	ParseResult          = domain.ParseResult
	SingleDocumentResult = domain.SingleDocumentResult
	MultiDocumentResult  = domain.MultiDocumentResult
	DocumentResult       = domain.DocumentResult
	PageUsage            = domain.PageUsage
	ResultSource         = domain.ResultSource

	AsyncJob     = domain.AsyncJob
	JobRecord    = domain.JobRecord
	JobStatus    = domain.JobStatus
	WebhookEvent = domain.WebhookEvent
	Timestamp    = domain.Timestamp
	EventType    = domain.EventType

	HTTPDoer        = port.HTTPDoer
	FileReader      = port.FileReader
	MetricsRecorder = port.MetricsRecorder
)

const (
	JobStatusPending    = domain.JobStatusPending
	JobStatusProcessing = domain.JobStatusProcessing
	JobStatusCompleted  = domain.JobStatusCompleted
	JobStatusFailed     = domain.JobStatusFailed

	EventDocumentCompleted = domain.EventDocumentCompleted
	EventDocumentFailed    = domain.EventDocumentFailed

	ResultSourceZip = domain.ResultSourceZip

	CodeNetworkError    = domain.CodeNetworkError
	CodeTimeout         = domain.CodeTimeout
	CodeCanceled        = domain.CodeCanceled
	CodeInvalidResponse = domain.CodeInvalidResponse

	SignatureHeader = webhook.SignatureHeader
)

var (
	FromPath   = domain.FromPath
	FromBytes  = domain.FromBytes
	FromReader = domain.FromReader

	AsError      = domain.AsError
	IsValidation = domain.IsValidation
	IsTimeout    = domain.IsTimeout
	IsNetwork    = domain.IsNetwork
	StatusOf     = domain.StatusOf

	DecodeWebhookEvent = webhook.DecodeEvent
)
