package models

// Advisory describes a best-effort side effect that was skipped or failed
// while the primary operation still succeeded.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	AdvisoryJournalMissing     = "journal_missing"
	AdvisoryJournalSyncFailed  = "journal_sync_failed"
	AdvisoryLocationRuleFailed = "location_rule_failed"
	AdvisoryProvisionFailed    = "journal_provision_failed"
)
