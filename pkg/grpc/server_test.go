package grpc_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/shashiranjanraj/stockroom/pkg/grpc"
)

type flakyStore struct{ down atomic.Bool }

func (f *flakyStore) Ping(context.Context) error {
	if f.down.Load() {
		return errors.New("no primary")
	}
	return nil
}

func TestHealthFollowsProbe(t *testing.T) {
	store := &flakyStore{}
	srv, err := grpc.Start("127.0.0.1:0", store, 20*time.Millisecond)
	require.NoError(t, err)
	defer srv.Stop()

	conn, err := gogrpc.NewClient(srv.Addr().String(), gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := grpc_health_v1.NewHealthClient(conn)
	check := func(service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
		if err != nil {
			return grpc_health_v1.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, check(grpc.ProductService))

	store.down.Store(true)
	assert.Eventually(t, func() bool {
		return check(grpc.ProductService) == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	store.down.Store(false)
	assert.Eventually(t, func() bool {
		return check("") == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	srv, err := grpc.Start("127.0.0.1:0", &flakyStore{}, time.Hour)
	require.NoError(t, err)

	srv.Stop()
	srv.Stop()

	var nilSrv *grpc.Server
	assert.NotPanics(t, nilSrv.Stop)
}
