// Package gateway lets browsers call PortalService with plain HTTP and JSON.
// Request bodies are forwarded to the gRPC server untouched, so the JSON the
// browser sends is exactly what the service decodes.
package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"patient-portal/internal/api"
	"patient-portal/internal/auth"
	"patient-portal/internal/middleware"
)

const maxBody = 1 << 20

// Bridge translates HTTP/JSON requests into gRPC calls.
type Bridge struct {
	cc     grpc.ClientConnInterface
	closer io.Closer
	origin string
}

// New dials the gRPC server at addr (e.g. "localhost:50051"). origin is the
// allowed CORS origin; empty echoes the caller's origin.
func New(addr, origin string) (*Bridge, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway dial: %w", err)
	}
	b := NewWithConn(conn, origin)
	b.closer = conn
	return b, nil
}

// NewWithConn builds a bridge over an existing connection. Close does not
// close cc.
func NewWithConn(cc grpc.ClientConnInterface, origin string) *Bridge {
	return &Bridge{cc: cc, origin: origin}
}

func (b *Bridge) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Handler returns an http.Handler serving POST /portal.v1.PortalService/<Method>.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := b.origin
		if origin == "" {
			origin = r.Header.Get("Origin")
		}
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codes.Unimplemented, "method not allowed")
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/"+api.ServiceName+"/") {
			writeError(w, http.StatusNotFound, codes.Unimplemented, "unknown method")
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
			writeError(w, http.StatusUnsupportedMediaType, codes.InvalidArgument, "expected application/json")
			return
		}

		b.forward(w, r)
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, codes.InvalidArgument, "body too large")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, codes.InvalidArgument, "malformed json")
		return
	}

	ctx := metadata.NewOutgoingContext(r.Context(), outgoingMD(r))

	resp := &rawMsg{}
	err = b.cc.Invoke(ctx, r.URL.Path, &rawMsg{data: body}, resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		st, _ := status.FromError(err)
		if st.Code() == codes.Internal || st.Code() == codes.Unknown {
			log.Printf("gateway %s: %s: %s", r.URL.Path, st.Code(), st.Message())
		}
		writeError(w, HTTPStatus(st.Code()), st.Code(), st.Message())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(resp.data)
}

// outgoingMD carries the caller's token and address to the server. The
// address lets the rate limiter tell browsers apart behind one connection.
func outgoingMD(r *http.Request) metadata.MD {
	md := metadata.MD{}
	if tok := auth.BearerToken(r.Header.Get("Authorization")); tok != "" {
		md.Set(middleware.AuthorizationKey, "Bearer "+tok)
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	if host != "" {
		md.Set(middleware.ForwardedForKey, host)
	}
	return md
}

// rawMsg wraps JSON bytes.
type rawMsg struct{ data []byte }

// rawCodec passes bytes through without marshal/unmarshal. It shares the
// service codec's name so the server decodes the body as JSON.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return v.(*rawMsg).data, nil
}
func (rawCodec) Unmarshal(data []byte, v any) error {
	m := v.(*rawMsg)
	m.data = append([]byte(nil), data...)
	return nil
}
func (rawCodec) Name() string { return api.CodecName }

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, httpCode int, code codes.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(errorBody{Code: code.String(), Message: msg})
}

// HTTPStatus maps a gRPC code to the HTTP status the gateway answers with.
func HTTPStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Canceled:
		return 499
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
