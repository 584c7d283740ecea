package model

// CleanRecord is one verified visit that survived filtering. All three
// name fields are trimmed and non-empty. Immutable once emitted.
type CleanRecord struct {
	Client   string
	Employee string
	Service  string

	// Source and RowNumber locate the record in its originating file
	// (1-based, counting data rows after the header).
	Source    string
	RowNumber int64
}

// RejectReason classifies why a row was excluded during cleaning.
type RejectReason string

const (
	// ReasonUnverifiedStatus marks rows whose status field did not match
	// the verification policy ("omit", "pending", empty, anything else).
	ReasonUnverifiedStatus RejectReason = "unverified_status"
	// ReasonMissingField marks rows missing client, employee, or service
	// after trimming.
	ReasonMissingField RejectReason = "missing_required_field"
)

// RejectedRow records one excluded row for the audit trail.
type RejectedRow struct {
	Source    string
	RowNumber int64
	Reason    RejectReason
}
