package query

import (
	"strings"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
)

// Bucket is a named sub-range of the 1–10 mood scale.
//
// Canonical table (shared by filtering, counting and colouring):
//
//	bad      1–4
//	neutral  5
//	good     6–10
//
// The three real buckets are mutually exclusive and together cover the
// whole scale; BucketAll matches everything.
type Bucket string

const (
	BucketAll     Bucket = "all"
	BucketBad     Bucket = "bad"
	BucketNeutral Bucket = "neutral"
	BucketGood    Bucket = "good"
)

// Buckets lists the real buckets in scale order.
var Buckets = []Bucket{BucketBad, BucketNeutral, BucketGood}

// Bounds returns the inclusive value range of the bucket.
func (b Bucket) Bounds() (lo, hi int) {
	switch b {
	case BucketBad:
		return 1, 4
	case BucketNeutral:
		return 5, 5
	case BucketGood:
		return 6, 10
	default:
		return model.MinMood, model.MaxMood
	}
}

// Contains reports whether v falls inside the bucket.
func (b Bucket) Contains(v int) bool {
	lo, hi := b.Bounds()
	return v >= lo && v <= hi
}

// BucketFor returns the real bucket a mood value belongs to.
func BucketFor(v int) Bucket {
	for _, b := range Buckets {
		if b.Contains(v) {
			return b
		}
	}
	return BucketAll
}

// ParseBucket accepts "", "all", "bad", "neutral" or "good" (any case).
// The empty string means all.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BucketAll:
		return BucketAll, nil
	case BucketBad, BucketNeutral, BucketGood:
		return b, nil
	default:
		return "", apperror.ValidationFailed("bucket",
			"bucket must be one of all, bad, neutral, good")
	}
}
