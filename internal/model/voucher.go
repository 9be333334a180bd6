package model

import (
	"time"

	"github.com/google/uuid"
)

// VoucherPool is the single shared code inventory. Available codes are
// claimed oldest-first; claimed is an append-only ledger. A code never
// appears in both lists.
type VoucherPool struct {
	Available []string
	Claimed   []ClaimRecord
	Version   int64
}

type ClaimRecord struct {
	VoucherCode   string    `json:"voucher_code"`
	ClaimedBy     uuid.UUID `json:"claimed_by"`
	ClaimedAt     time.Time `json:"claimed_at"`
	StreakAtClaim int       `json:"streak_at_claim"`
}
