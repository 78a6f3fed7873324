package middleware

import (
	"context"

	"patient-portal/internal/api"
	"patient-portal/internal/auth"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const UserIDKey ctxKey = "uid"

// metadata keys shared with the gateway
const (
	AuthorizationKey = "authorization"
	ForwardedForKey  = "x-forwarded-for"
)

// skip auth for these
var open = map[string]bool{
	api.FullMethod("Register"):    true,
	api.FullMethod("Login"):       true,
	api.FullMethod("CheckEmail"):  true,
	api.FullMethod("ListDoctors"): true,
	api.FullMethod("ListSlots"):   true,
}

// UserID returns the authenticated user set by the Auth interceptor.
func UserID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserIDKey).(string)
	return uid, ok && uid != ""
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserIDKey, uid)
}

// bearerToken returns the first usable bearer token in md.
func bearerToken(md metadata.MD) string {
	for _, v := range md.Get(AuthorizationKey) {
		if tok := auth.BearerToken(v); tok != "" {
			return tok
		}
	}
	return ""
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		raw := bearerToken(md)
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}
		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}
		return next(WithUserID(ctx, claims.UserID), req)
	}
}
