package exitcode

const (
	Success     = 0
	UsageError  = 1
	SchemaError = 2
	ReadError   = 3
	DBConnError = 4
	StoreError  = 5
	WriteError  = 6
)
