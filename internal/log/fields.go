package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDate      = "date"
	FieldMonth     = "month"
	FieldAccount   = "account"
	FieldPath      = "path"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
)

// Components
const (
	ComponentApp    = "app"
	ComponentStore  = "store"
	ComponentTUI    = "tui"
	ComponentExport = "export"
	ComponentChime  = "chime"
)

// Operations
const (
	OpLoad    = "load"
	OpSave    = "save"
	OpMigrate = "migrate"
	OpExport  = "export"
	OpImport  = "import"
	OpRestore = "restore"
	OpChime   = "chime"
)
