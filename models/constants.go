package models

// ✅ Pool lifecycle statuses
const (
	PoolStatusActive    = "active"
	PoolStatusMatching  = "matching" // transitional lock held during a commit attempt
	PoolStatusMatched   = "matched"
	PoolStatusClosed    = "closed"
	PoolStatusCancelled = "cancelled"
)

// ✅ Registration match statuses
const (
	MatchStatusPending   = "pending"
	MatchStatusMatched   = "matched"
	MatchStatusUnmatched = "unmatched"
)

// ✅ Scan types (what triggered the scan)
const (
	ScanTypeRealtime  = "realtime"
	ScanTypeScheduled = "scheduled"
	ScanTypeManual    = "manual"
)

// ✅ Scan decisions
const (
	DecisionMatched      = "matched"
	DecisionWaiting      = "waiting"
	DecisionInsufficient = "insufficient"
	DecisionNoop         = "noop"   // pool was no longer open when the scan ran
	DecisionFailed       = "failed" // scan attempt aborted, safe to retry
)

// ✅ Group temperature levels (presentation label over overallScore)
const (
	TemperatureFire = "fire" // ≥85
	TemperatureWarm = "warm" // ≥70
	TemperatureMild = "mild" // ≥55
	TemperatureCold = "cold"
)

// ✅ Invitation pair statuses
const (
	InvitationStatusActive = "active"
	InvitationStatusUsed   = "used"
)
