package anomaly

import "time"

const (
	KindSequenceGap      = "sequence_gap"
	KindPlayCountShrink  = "play_count_shrink"
	KindScoreRegression  = "score_regression"
	KindPeriodRegression = "period_regression"
	KindClockRegression  = "clock_regression"
	KindTerminalReopen   = "terminal_reopen"
	KindPlayOverwrite    = "play_overwrite"
)

// Anomaly records an upstream observation that contradicted stored
// state. The contradicting value is still applied; the anomaly row is
// the audit trail.
type Anomaly struct {
	ID         int64
	GameID     int64
	Kind       string
	Detail     string
	ObservedAt time.Time
}
