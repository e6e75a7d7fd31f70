package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/rpc"
	"github.com/dmitrijs2005/rateday/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func incoming(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestInterceptor_PingIsPublic(t *testing.T) {
	s, _, _, _ := newTestServer("secret")
	called := false

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: rpc.MethodPing},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			called = true
			return "ok", nil
		})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestInterceptor_RequiresToken(t *testing.T) {
	s, _, _, _ := newTestServer("secret")

	expired, err := auth.GenerateToken("alice", []byte("secret"), -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("alice", []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{"missing metadata", context.Background(), "missing token"},
		{"empty token", incoming(""), "missing token"},
		{"expired", incoming(expired), "token expired"},
		{"wrong secret", incoming(foreign), "invalid token"},
		{"garbage", incoming("not.a.jwt"), "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tt.ctx, nil, &grpc.UnaryServerInfo{FullMethod: rpc.MethodUpsertRating},
				func(ctx context.Context, req interface{}) (interface{}, error) {
					t.Fatal("handler must not be called")
					return nil, nil
				})
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestInterceptor_StoresPrincipal(t *testing.T) {
	s, _, _, _ := newTestServer("secret")
	tok, err := auth.GenerateToken("alice", []byte("secret"), time.Hour)
	require.NoError(t, err)

	var got string
	_, err = s.accessTokenInterceptor(incoming(tok), nil, &grpc.UnaryServerInfo{FullMethod: rpc.MethodListMonth},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			got, err = principalFromContext(ctx)
			return nil, err
		})

	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	_, err := principalFromContext(context.Background())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
