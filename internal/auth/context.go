// Package auth validates practitioner sessions and carries the
// authenticated practitioner id through request context.
package auth

import "context"

type ctxKey string

const practitionerKey ctxKey = "psipro.practitioner_id"

// WithPractitionerID stores the practitioner id in context.
func WithPractitionerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, practitionerKey, id)
}

// PractitionerIDFromContext extracts the practitioner id if present.
func PractitionerIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(practitionerKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
