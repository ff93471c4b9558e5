package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldReportKind = "report_kind"
	FieldReference  = "reference_date"
	FieldRows       = "rows"
	FieldWindowFrom = "window_from"
	FieldWindowTo   = "window_to"
	FieldSymbols    = "symbols"
	FieldService    = "service"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldReportID   = "report_id"
	FieldBackend    = "backend"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentReport  = "report"
	ComponentQuotes  = "quotes"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentHTTP    = "http"
)
