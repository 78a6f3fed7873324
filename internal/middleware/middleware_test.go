package middleware_test

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/auth"
	"patient-portal/internal/middleware"
)

const secret = "test-secret"

func echoUID(ctx context.Context, _ any) (any, error) {
	uid, _ := middleware.UserID(ctx)
	return uid, nil
}

func TestAuthInterceptor(t *testing.T) {
	intercept := middleware.Auth(secret)
	tok, _ := auth.MakeToken("u1", "a@x.com", secret)
	other, _ := auth.MakeToken("u1", "a@x.com", "other-secret")

	tests := []struct {
		name   string
		method string
		md     metadata.MD
		code   codes.Code
		uid    string
	}{
		{"open method", api.FullMethod("Login"), nil, codes.OK, ""},
		{"no metadata", api.FullMethod("ListReminders"), nil, codes.Unauthenticated, ""},
		{"no token", api.FullMethod("ListReminders"), metadata.Pairs(), codes.Unauthenticated, ""},
		{"bad token", api.FullMethod("ListReminders"), metadata.Pairs("authorization", "Bearer junk"), codes.Unauthenticated, ""},
		{"wrong secret", api.FullMethod("ListReminders"), metadata.Pairs("authorization", "Bearer "+other), codes.Unauthenticated, ""},
		{"wrong scheme", api.FullMethod("ListReminders"), metadata.Pairs("authorization", "Basic "+tok), codes.Unauthenticated, ""},
		{"valid", api.FullMethod("ListReminders"), metadata.Pairs("authorization", "Bearer "+tok), codes.OK, "u1"},
		{"lowercase scheme", api.FullMethod("ListReminders"), metadata.Pairs("authorization", "bearer "+tok), codes.OK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tt.md)
			}
			resp, err := intercept(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, echoUID)
			if got := status.Code(err); got != tt.code {
				t.Fatalf("expected %v, got %v", tt.code, got)
			}
			if err == nil && resp.(string) != tt.uid {
				t.Errorf("expected uid %q, got %q", tt.uid, resp)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := middleware.NewRateLimiter(ctx, 0.001, 2)
	intercept := middleware.RateLimit(rl)

	addr := &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1234}
	pctx := peer.NewContext(ctx, &peer.Peer{Addr: addr})
	login := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Login")}
	ok := func(context.Context, any) (any, error) { return "ok", nil }

	for i := 0; i < 2; i++ {
		if _, err := intercept(pctx, nil, login, ok); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if _, err := intercept(pctx, nil, login, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}

	// other methods and other peers are unaffected
	list := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("ListReminders")}
	if _, err := intercept(pctx, nil, list, ok); err != nil {
		t.Errorf("unlimited method blocked: %v", err)
	}
	other := peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 1}})
	if _, err := intercept(other, nil, login, ok); err != nil {
		t.Errorf("other peer blocked: %v", err)
	}
}

func TestRateLimitKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	login := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Login")}
	ok := func(context.Context, any) (any, error) { return "ok", nil }

	from := func(ip net.IP, port int, fwd string) context.Context {
		c := peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: ip, Port: port}})
		if fwd != "" {
			c = metadata.NewIncomingContext(c, metadata.Pairs(middleware.ForwardedForKey, fwd))
		}
		return c
	}
	remote := net.IPv4(10, 0, 0, 1)
	local := net.IPv4(127, 0, 0, 1)

	tests := []struct {
		name          string
		first, second context.Context
		shared        bool
	}{
		{"same host new port", from(remote, 1000, ""), from(remote, 1001, ""), true},
		{"remote cannot spoof forwarded", from(remote, 1000, "1.1.1.1"), from(remote, 1000, "2.2.2.2"), true},
		{"local proxy forwards clients", from(local, 1000, "1.1.1.1:5000"), from(local, 1000, "2.2.2.2:5000"), false},
		{"forwarded port ignored", from(local, 1000, "1.1.1.1:5000"), from(local, 1000, "1.1.1.1:6000"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intercept := middleware.RateLimit(middleware.NewRateLimiter(ctx, 0.001, 1))
			if _, err := intercept(tt.first, nil, login, ok); err != nil {
				t.Fatalf("first: %v", err)
			}
			_, err := intercept(tt.second, nil, login, ok)
			limited := status.Code(err) == codes.ResourceExhausted
			if limited != tt.shared {
				t.Errorf("expected shared=%v, got err %v", tt.shared, err)
			}
		})
	}
}
