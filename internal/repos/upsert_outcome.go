package repos

// UpsertOutcome reports what a hash-gated upsert actually did. Services sum
// outcomes into stage counters.
type UpsertOutcome string

const (
	OutcomeInserted        UpsertOutcome = "inserted"
	OutcomeUpdated         UpsertOutcome = "updated"
	OutcomeSkippedNoChange UpsertOutcome = "skipped_no_change"
	OutcomeSkippedExisting UpsertOutcome = "skipped_existing"
)
