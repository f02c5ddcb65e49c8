package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldUsername  = "username"
	FieldExpenseID = "expense_id"
	FieldOperation = "operation"
	FieldBackend   = "backend"
	FieldError     = "error"
	FieldAmount    = "amount"
	FieldSheetsRef = "sheets_ref"
)

// Components
const (
	ComponentApp      = "app"
	ComponentAccounts = "accounts"
	ComponentRegistry = "registry"
	ComponentWorker   = "worker"
	ComponentJournal  = "journal"
	ComponentBackend  = "backend"
)

// LogFields builds structured attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithExpense(username string, id int64) LogFields {
	f[FieldUsername] = username
	f[FieldExpenseID] = id
	return f
}

// ToSlice flattens the fields for slog.
func (f LogFields) ToSlice() []any {
	out := make([]any, 0, len(f)*2)
	for k, v := range f {
		out = append(out, k, v)
	}
	return out
}
