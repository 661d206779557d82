package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"

	"github.com/murkotick/digital-menu-service/internal/app/menu/bus"
	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/persistence"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
	"github.com/murkotick/digital-menu-service/internal/app/menu/session"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
	"github.com/murkotick/digital-menu-service/internal/pkg/config"
	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
	grpcmenu "github.com/murkotick/digital-menu-service/internal/transport/grpc/menu"
	httpmenu "github.com/murkotick/digital-menu-service/internal/transport/http/menu"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Println("shutdown signal received")
		cancel()
	}()

	port, closePort, err := openPort(ctx, cfg)
	if err != nil {
		log.Fatalf("persistence %s: %v", cfg.Persistence, err)
	}
	defer closePort()

	clk := clock.RealClock{}

	// Cross-process notifications travel through the shared state directory.
	state, err := kv.NewDir(cfg.KVDir)
	if err != nil {
		log.Fatalf("kv dir %s: %v", cfg.KVDir, err)
	}
	events := bus.New(state, clk, nil)
	go func() {
		if err := events.Run(ctx, cfg.BusPollInterval); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("bus: %v", err)
		}
	}()

	registry := session.NewRegistry(port, events, clk, nil, cfg.CacheMaxAge)
	defer registry.Close()
	defer registry.Attach(events)()

	res := resolver.New(port, clk)
	status := services.NewStatusCalculator(clk, cfg.Location())

	// gRPC server
	srv := grpc.NewServer()
	grpcmenu.RegisterMenuServiceServer(srv, grpcmenu.NewHandler(res, registry, status))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen %s: %v", cfg.GRPCAddr, err)
	}
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc serve: %v", err)
			cancel()
		}
	}()

	// HTTP storefront
	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode
	web := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpmenu.NewRouter(httpmenu.NewHandler(res, cookies, status, events, nil)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := web.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http serve: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := web.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		srv.Stop()
	}

	log.Println("server stopped")
}

// openPort connects the configured backend and returns its cleanup.
func openPort(ctx context.Context, cfg config.Config) (contracts.PersistencePort, func(), error) {
	switch cfg.Persistence {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		port, err := persistence.NewPostgres(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := port.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return port, pool.Close, nil
	case config.BackendMemory:
		log.Println("using in-memory persistence; data is lost on exit")
		return persistence.NewMemory(), func() {}, nil
	default:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, nil, err
		}
		return persistence.NewSpanner(client), client.Close, nil
	}
}
