package tenancy

import "context"

// orgIDKey is unexported so only this package can write the value.
type orgIDKey struct{}

// WithOrgID returns a context carrying the workspace owner id. Every
// request entering the tenant API surface passes through here before
// any store is touched.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	if orgID == "" {
		return ctx
	}
	return context.WithValue(ctx, orgIDKey{}, orgID)
}

// OrgIDFromContext reports the workspace owner id attached to ctx.
// The boolean is false when no non-empty id was attached.
func OrgIDFromContext(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(orgIDKey{}).(string)
	return orgID, ok && orgID != ""
}
