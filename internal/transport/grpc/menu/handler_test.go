package menu

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/persistence"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
	"github.com/murkotick/digital-menu-service/internal/app/menu/session"
	"github.com/murkotick/digital-menu-service/internal/pkg/clock"
)

type fixture struct {
	client *Client
	port   *persistence.Memory
	clk    *clock.FakeClock
}

// Monday 10:00 UTC.
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewFake(monday)
	port := persistence.NewMemory()
	port.SeedDesign(&domain.DesignSettings{TenantID: "tenant-1", Code: "abc12", Name: "Doces da Ana"})
	cfg := domain.DefaultOperatingConfig("tenant-1")
	cfg.ConfigID = "cfg-1"
	cfg.Phone = "(11) 98765-4321"
	port.SeedConfig(cfg)
	for i, name := range []string{"Bolo de fubá", "Pudim", "Brigadeiro"} {
		port.SeedProduct(domain.Product{
			ID:        "p" + string(rune('1'+i)),
			TenantID:  "tenant-1",
			Name:      name,
			Price:     decimal.NewFromInt(int64(10 * (i + 1))),
			SaleUnit:  domain.SaleUnitUnit,
			Available: true,
			CreatedAt: monday.Add(-time.Duration(i) * time.Hour),
		})
	}

	registry := session.NewRegistry(port, nil, clk, nil, 0)
	t.Cleanup(registry.Close)
	h := NewHandler(resolver.New(port, clk), registry, services.NewStatusCalculator(clk, time.UTC))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterMenuServiceServer(srv, h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fixture{client: NewClient(conn), port: port, clk: clk}
}

func body(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func operator(id string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), IdentityHeader, id)
}

func TestResolveMenu(t *testing.T) {
	f := newFixture(t)

	out, err := f.client.Call(context.Background(), MethodResolveMenu, body(t, map[string]any{"code": "ABC12"}))
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, "abc12", m["code"])
	assert.Equal(t, true, m["aberto"])
	products := m["products"].([]any)
	require.Len(t, products, 3)
	assert.Equal(t, "Bolo de fubá", products[0].(map[string]any)["name"])
}

func TestResolveMenu_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Call(context.Background(), MethodResolveMenu, body(t, map[string]any{"code": "zzzzz"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = f.client.Call(context.Background(), MethodResolveMenu, body(t, map[string]any{"code": "bad"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.Call(context.Background(), MethodResolveMenu, body(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetStatus_Closed(t *testing.T) {
	f := newFixture(t)
	f.clk.Set(time.Date(2026, 3, 2, 18, 1, 0, 0, time.UTC))

	out, err := f.client.Call(context.Background(), MethodGetStatus, body(t, map[string]any{"code": "abc12"}))
	require.NoError(t, err)
	assert.Equal(t, false, out.AsMap()["aberto"])
}

func TestListProducts_Pages(t *testing.T) {
	f := newFixture(t)

	out, err := f.client.Call(context.Background(), MethodListProducts, body(t, map[string]any{"code": "abc12", "pageSize": 2}))
	require.NoError(t, err)
	m := out.AsMap()
	assert.Len(t, m["products"], 2)
	assert.Equal(t, "2", m["nextPageToken"])

	out, err = f.client.Call(context.Background(), MethodListProducts, body(t, map[string]any{"code": "abc12", "pageSize": 2, "pageToken": "2"}))
	require.NoError(t, err)
	m = out.AsMap()
	assert.Len(t, m["products"], 1)
	assert.Equal(t, "", m["nextPageToken"])

	_, err = f.client.Call(context.Background(), MethodListProducts, body(t, map[string]any{"code": "abc12", "pageToken": "x"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestComposeOrder(t *testing.T) {
	f := newFixture(t)

	out, err := f.client.Call(context.Background(), MethodComposeOrder, body(t, map[string]any{
		"code":     "abc12",
		"customer": map[string]any{"name": "Maria", "phone": "11 91234-5678"},
		"items": []any{
			map[string]any{"productId": "p2", "quantity": 1},
			map[string]any{"productId": "p2", "quantity": 2},
		},
	}))
	require.NoError(t, err)

	m := out.AsMap()
	msg := m["message"].(string)
	assert.Contains(t, msg, "1. *Pudim*\n   Quantidade: 3 unidade(s)\n   Subtotal: R$ 60,00")
	assert.NotContains(t, msg, "2. *Pudim*")
	assert.True(t, strings.HasPrefix(m["deepLink"].(string), "https://wa.me/5511987654321?text="))
}

func TestComposeOrder_Rejects(t *testing.T) {
	f := newFixture(t)
	customer := map[string]any{"name": "Maria", "phone": "11 91234-5678"}

	_, err := f.client.Call(context.Background(), MethodComposeOrder, body(t, map[string]any{
		"code": "abc12", "customer": customer, "items": []any{},
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.Call(context.Background(), MethodComposeOrder, body(t, map[string]any{
		"code": "abc12", "customer": customer, "items": []any{map[string]any{"productId": "ghost", "quantity": 1}},
	}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestOperatorMethods_RequireIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Call(context.Background(), MethodLoadTenant, body(t, map[string]any{}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestOperatorFlow(t *testing.T) {
	f := newFixture(t)
	ctx := operator("tenant-1")

	out, err := f.client.Call(ctx, MethodLoadTenant, body(t, map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", out.AsMap()["tenantId"])

	out, err = f.client.Call(ctx, MethodUpdateDesign, body(t, map[string]any{"name": "Ana Doces"}))
	require.NoError(t, err)
	assert.Equal(t, "Ana Doces", out.AsMap()["name"])
	assert.Equal(t, "abc12", out.AsMap()["code"])

	_, err = f.client.Call(ctx, MethodUpdateConfig, body(t, map[string]any{"openTime": "9h"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	out, err = f.client.Call(ctx, MethodAddProduct, body(t, map[string]any{
		"name": "Torta", "price": "25,90", "saleUnit": "fatia",
	}))
	require.NoError(t, err)
	added := out.AsMap()
	assert.Equal(t, "25.90", added["price"])
	assert.Equal(t, true, added["available"])
	id := added["id"].(string)

	out, err = f.client.Call(ctx, MethodEditProduct, body(t, map[string]any{
		"id": id, "name": "Torta de limão", "price": 27, "available": false,
	}))
	require.NoError(t, err)
	assert.Equal(t, "Torta de limão", out.AsMap()["name"])
	assert.Equal(t, "fatia", out.AsMap()["saleUnit"])
	assert.Equal(t, false, out.AsMap()["available"])

	_, err = f.client.Call(ctx, MethodEditProduct, body(t, map[string]any{"id": "ghost", "name": "x", "price": 1}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	out, err = f.client.Call(ctx, MethodAddOption, body(t, map[string]any{"kind": "topping", "name": "Granulado"}))
	require.NoError(t, err)
	assert.Equal(t, []any{"Granulado"}, out.AsMap()["names"])

	_, err = f.client.Call(ctx, MethodAddOption, body(t, map[string]any{"kind": "topping", "name": "Granulado"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.Call(ctx, MethodRemoveProduct, body(t, map[string]any{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, 1, f.port.Calls("DeleteProduct"))
}

func TestOperatorFlow_PersistenceDown(t *testing.T) {
	f := newFixture(t)
	ctx := operator("tenant-1")
	_, err := f.client.Call(ctx, MethodLoadTenant, body(t, map[string]any{}))
	require.NoError(t, err)

	f.port.FailWith("InsertOption", assert.AnError)
	_, err = f.client.Call(ctx, MethodAddOption, body(t, map[string]any{"kind": "base", "name": "Chocolate"}))
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestPage(t *testing.T) {
	start, end, next := page(5, 0, 2)
	assert.Equal(t, []any{0, 2, "2"}, []any{start, end, next})

	start, end, next = page(5, 4, 2)
	assert.Equal(t, []any{4, 5, ""}, []any{start, end, next})

	start, end, next = page(5, 9, 2)
	assert.Equal(t, []any{5, 5, ""}, []any{start, end, next})

	assert.Equal(t, defaultPageSize, clampPageSize(0))
	assert.Equal(t, maxPageSize, clampPageSize(1000))
}
