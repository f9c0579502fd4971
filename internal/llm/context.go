package llm

import "context"

// Request purposes, recorded with every llm_request event so usage can be
// broken down by feature.
const (
	PurposeSyllabus = "syllabus"
	PurposeAvatar   = "avatar"
	PurposeTutor    = "tutor"
)

type purposeKey struct{}

// WithPurpose tags calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
