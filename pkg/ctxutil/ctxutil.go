package ctxutil

import "context"

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	UserIDKey    ctxKey = "user_id"
	UserNameKey  ctxKey = "user_name"
	AdminKey     ctxKey = "is_admin"
)

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}

func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(RequestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func GetUserID(ctx context.Context) int64 {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func GetUserName(ctx context.Context) string {
	if v := ctx.Value(UserNameKey); v != nil {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	if v := ctx.Value(AdminKey); v != nil {
		if admin, ok := v.(bool); ok {
			return admin
		}
	}
	return false
}
