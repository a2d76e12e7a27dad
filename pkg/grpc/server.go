// Package grpc runs the gRPC side-server that reports service health.
//
// Features:
//   - Standard gRPC health-check service (grpc.health.v1.Health) driven by a
//     probe of the product store
//   - Panic-recovery, logging and Prometheus interceptors
//   - Server reflection so grpcurl works without proto files
//   - Graceful shutdown via Stop()
//
// Usage in server bootstrap:
//
//	srv, err := grpc.Start(":"+config.GRPCPort(), repo, 15*time.Second)
//	// ...run until signal...
//	srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// ProductService is the health service name clients can check individually.
const ProductService = "stockroom.v1.ProductService"

// ─── Prometheus metrics ───────────────────────────────────────────────────────

var (
	grpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockroom",
		Subsystem: "grpc",
		Name:      "server_handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	grpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stockroom",
		Subsystem: "grpc",
		Name:      "server_handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"grpc_method"})
)

func init() {
	metrics.DefaultRegistry.MustRegister(grpcRequestsTotal, grpcRequestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

func recoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func observeInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)
	code := status.Code(err)

	grpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	grpcRequestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())
	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// ─── Server ───────────────────────────────────────────────────────────────────

// Pinger is probed to decide whether the service is SERVING.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is a running gRPC server plus its health watcher.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener

	stop     chan struct{}
	watching sync.WaitGroup
	once     sync.Once
}

// Start listens on addr, registers the health and reflection services and
// begins probing p every interval.
func Start(addr string, p Pinger, interval time.Duration) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	s := &Server{
		srv: grpc.NewServer(
			grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
			grpc.MaxRecvMsgSize(1<<20),
		),
		health: health.NewServer(),
		lis:    lis,
		stop:   make(chan struct{}),
	}

	grpc_health_v1.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)

	s.probe(p)
	s.watching.Add(1)
	go s.watch(p, interval)

	logger.Info("gRPC server starting", "addr", lis.Addr().String())
	go func() {
		if err := s.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return s, nil
}

// Addr is the bound listener address.
func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) watch(p Pinger, interval time.Duration) {
	defer s.watching.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.probe(p)
		}
	}
}

func (s *Server) probe(p Pinger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st := grpc_health_v1.HealthCheckResponse_SERVING
	if err := p.Ping(ctx); err != nil {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		logger.Warn("grpc: health probe failed", "error", err)
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ProductService, st)
}

// Stop marks the service NOT_SERVING, stops the watcher and waits for
// in-flight RPCs. It is safe to call on a nil Server and more than once.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		logger.Info("gRPC server shutting down")
		close(s.stop)
		s.watching.Wait()
		s.health.Shutdown()
		s.srv.GracefulStop()
	})
}
