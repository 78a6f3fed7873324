package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"patient-portal/internal/api"
	"patient-portal/internal/config"
	"patient-portal/internal/gateway"
	"patient-portal/internal/handler"
	"patient-portal/internal/middleware"
	"patient-portal/internal/portal"
	"patient-portal/internal/store"
)

func main() {
	log.SetPrefix("[portal-server] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ServerReady(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	kv, err := store.Open(ctx, cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer kv.Close()
	if cfg.DatabaseURL != "" {
		log.Println("connected to postgres")
	} else {
		log.Printf("using sqlite at %s", cfg.DataPath)
	}

	// older clients kept one global list; split it per user
	if err := portal.MigrateLegacy(ctx, kv, ""); err != nil {
		log.Printf("legacy migration: %v", err)
	}

	h := handler.New(kv, cfg.JWTSecret)

	// grpc server
	rl := middleware.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateBurst)
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(rl),
			middleware.Auth(cfg.JWTSecret),
		),
	)
	api.RegisterPortalServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on :%s", cfg.Port)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// json gateway -> forwards browser requests to grpc on localhost
	bridge, err := gateway.New("localhost:"+cfg.Port, cfg.AllowedOrigin)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}
	defer bridge.Close()

	httpSrv := &http.Server{
		Addr:    ":" + cfg.WebPort,
		Handler: bridge.Handler(),
	}
	go func() {
		log.Printf("gateway on :%s", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	srv.GracefulStop()
	httpSrv.Close()
}
