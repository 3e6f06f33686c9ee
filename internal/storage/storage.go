package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/jwebster45206/story-script/pkg/validate"
)

// ReportCache stores validator reports so unchanged scripts are not
// re-validated. Reports are keyed by ReportKey.
type ReportCache interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GetReport returns nil, nil when no report is cached under key
	GetReport(ctx context.Context, key string) (*validate.Report, error)
	SaveReport(ctx context.Context, key string, r *validate.Report) error
	DeleteReport(ctx context.Context, key string) error
}

const reportKeyPrefix = "report:"

// ReportKey derives a cache key from the script name, its content and the
// vocabulary fingerprint it was validated against.
func ReportKey(name string, content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return reportKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
