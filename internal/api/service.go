// Package api defines the portal.v1.PortalService gRPC contract. Messages
// are plain structs carried with the JSON codec registered by this package.
package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "portal.v1.PortalService"

// FullMethod returns the gRPC path of a service method, e.g.
// /portal.v1.PortalService/Login.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type PortalServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CheckEmail(context.Context, *CheckEmailRequest) (*CheckEmailResponse, error)
	ListDoctors(context.Context, *ListDoctorsRequest) (*ListDoctorsResponse, error)
	ListSlots(context.Context, *ListSlotsRequest) (*ListSlotsResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentResponse, error)
	BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	CreateReminder(context.Context, *CreateReminderRequest) (*CreateReminderResponse, error)
	ListReminders(context.Context, *ListRemindersRequest) (*ListRemindersResponse, error)
	GetTheme(context.Context, *GetThemeRequest) (*ThemeResponse, error)
	ToggleTheme(context.Context, *ToggleThemeRequest) (*ThemeResponse, error)
}

func RegisterPortalServer(s grpc.ServiceRegistrar, srv PortalServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortalServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", PortalServer.Register),
		unary("Login", PortalServer.Login),
		unary("CheckEmail", PortalServer.CheckEmail),
		unary("ListDoctors", PortalServer.ListDoctors),
		unary("ListSlots", PortalServer.ListSlots),
		unary("GetProfile", PortalServer.GetProfile),
		unary("CreateAppointment", PortalServer.CreateAppointment),
		unary("BookAppointment", PortalServer.BookAppointment),
		unary("ListAppointments", PortalServer.ListAppointments),
		unary("CreateReminder", PortalServer.CreateReminder),
		unary("ListReminders", PortalServer.ListReminders),
		unary("GetTheme", PortalServer.GetTheme),
		unary("ToggleTheme", PortalServer.ToggleTheme),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "portal/v1/portal.go",
}

// unary adapts a PortalServer method expression to a grpc.MethodDesc,
// running it through the server's interceptor chain.
func unary[Req, Resp any](name string, call func(PortalServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortalServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PortalServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
