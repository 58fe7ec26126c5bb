package service

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// SlipNumberGenerator returns a fresh packing slip number for the given time.
type SlipNumberGenerator func(now time.Time) string

// NewSlipNumber formats a packing slip number as PS-YYYYMMDD-<12 hex chars>.
// The suffix is the first six bytes of id.
func NewSlipNumber(now time.Time, id uuid.UUID) string {
	return "PS-" + now.UTC().Format("20060102") + "-" + hex.EncodeToString(id[:6])
}

// RandomSlipNumber generates slip numbers from random (version 4) UUIDs.
func RandomSlipNumber(now time.Time) string {
	return NewSlipNumber(now, uuid.New())
}
