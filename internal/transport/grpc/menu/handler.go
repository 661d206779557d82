package menu

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/datasync"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/dto"
	"github.com/murkotick/digital-menu-service/internal/app/menu/order"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
	"github.com/murkotick/digital-menu-service/internal/app/menu/session"
	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
)

// IdentityHeader carries the operator identity on operator methods.
const IdentityHeader = "x-tenant-id"

// Handler is a thin gRPC transport adapter.
// It validates input, maps Struct bodies to application types and delegates
// to the resolver (public methods) or the operator's controller.
type Handler struct {
	resolver *resolver.Resolver
	sessions *session.Registry
	status   *services.StatusCalculator
	pricing  *services.PricingCalculator
}

var _ MenuServiceServer = (*Handler)(nil)

func NewHandler(res *resolver.Resolver, sessions *session.Registry, status *services.StatusCalculator) *Handler {
	return &Handler{
		resolver: res,
		sessions: sessions,
		status:   status,
		pricing:  services.NewPricingCalculator(),
	}
}

func (h *Handler) ResolveMenu(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req codeRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateCode(req.Code); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	b, err := h.resolver.ResolveByCode(ctx, req.Code)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(dto.NewMenuDTO(b, h.status.IsOpen(b.Config), h.pricing))
}

func (h *Handler) GetStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req codeRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateCode(req.Code); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	b, err := h.resolver.ResolveByCode(ctx, req.Code)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(map[string]any{"code": b.Design.Code, "aberto": h.status.IsOpen(b.Config)})
}

func (h *Handler) ListProducts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req listProductsRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateCode(req.Code); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	offset, err := decodePageToken(req.PageToken)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid pageToken")
	}

	b, err := h.resolver.ResolveByCode(ctx, req.Code)
	if err != nil {
		return nil, mapError(err)
	}

	start, end, next := page(len(b.Products), offset, clampPageSize(req.PageSize))
	return reply(map[string]any{
		"products":      dto.NewProductDTOs(b.Products[start:end], h.pricing),
		"nextPageToken": next,
	})
}

// ComposeOrder prices the requested items against the live catalog and
// returns the WhatsApp message and deep link.
func (h *Handler) ComposeOrder(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req composeOrderRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateComposeOrder(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 1. Resolve the storefront
	b, err := h.resolver.ResolveByCode(ctx, req.Code)
	if err != nil {
		return nil, mapError(err)
	}
	catalog := make(map[string]domain.Product, len(b.Products))
	for _, p := range b.Products {
		catalog[p.ID] = p
	}

	// 2. Build a throwaway cart so duplicate picks merge like the visitor's cart
	engine := cart.NewEngine(kv.NewMemory(), nil, nil)
	for _, item := range req.Items {
		p, ok := catalog[item.ProductID]
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "product %q is not available", item.ProductID)
		}
		engine.Add(h.pricing.LineFor(p, item.Quantity, mapChoices(item), item.Observation))
	}

	// 3. Compose
	customer := order.Customer{Name: req.Customer.Name, Phone: req.Customer.Phone}
	o, err := order.Compose(engine.Lines(), engine.TotalPrice(), customer, b.Config.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(dto.OrderDTO{Message: o.Message, DeepLink: o.DeepLink})
}

func (h *Handler) LoadTenant(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	h.sessions.MarkStale(identity)
	ctrl, err := h.sessions.Get(ctx, identity)
	if err != nil {
		return nil, mapError(err)
	}
	return h.tenantReply(ctrl)
}

func (h *Handler) UpdateDesign(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var patch domain.DesignSettingsPatch
	if err := decodeStruct(in, &patch); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctrl.MutateDesignSettings(ctx, patch); err != nil {
		return nil, mapError(err)
	}
	return reply(ctrl.Cache().Design())
}

func (h *Handler) UpdateConfig(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var patch domain.OperatingConfigPatch
	if err := decodeStruct(in, &patch); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctrl.MutateOperatingConfig(ctx, patch); err != nil {
		return nil, mapError(err)
	}
	cfg := ctrl.Cache().Config()
	return reply(map[string]any{"config": cfg, "aberto": h.status.IsOpen(cfg)})
}

func (h *Handler) AddProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req productRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateProduct(req, false); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	input, err := mapProductInput(req)
	if err != nil {
		return nil, mapError(err)
	}

	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	p, err := ctrl.AddProduct(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(dto.NewProductDTO(*p, h.pricing))
}

func (h *Handler) EditProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req productRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateProduct(req, true); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	var current *domain.Product
	for _, p := range ctrl.Cache().Products() {
		if p.ID == req.ID {
			current = &p
			break
		}
	}
	if current == nil {
		return nil, status.Errorf(codes.NotFound, "product %q not found", req.ID)
	}

	edited, err := mapEditedProduct(*current, req)
	if err != nil {
		return nil, mapError(err)
	}
	p, err := ctrl.EditProduct(ctx, edited)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(dto.NewProductDTO(*p, h.pricing))
}

func (h *Handler) RemoveProduct(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req productIDRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctrl.RemoveProduct(ctx, req.ID); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (h *Handler) AddOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req optionRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateOption(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ctrl, err := h.controller(ctx)
	if err != nil {
		return nil, err
	}
	kind := domain.OptionKind(req.Kind)
	if err := ctrl.AddCustomizationOption(ctx, kind, req.Name); err != nil {
		return nil, mapError(err)
	}
	return reply(map[string]any{"kind": req.Kind, "names": ctrl.Cache().Options(kind)})
}

// controller returns the loaded controller of the calling operator.
func (h *Handler) controller(ctx context.Context) (*datasync.Controller, error) {
	identity, err := identityFrom(ctx)
	if err != nil {
		return nil, err
	}
	ctrl, err := h.sessions.Get(ctx, identity)
	if err != nil {
		return nil, mapError(err)
	}
	return ctrl, nil
}

func (h *Handler) tenantReply(ctrl *datasync.Controller) (*structpb.Struct, error) {
	store := ctrl.Cache()
	return reply(dto.NewTenantDTO(ctrl.TenantID(), store, h.status.IsOpen(store.Config()), h.pricing))
}

func identityFrom(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		for _, v := range md.Get(IdentityHeader) {
			if id := strings.TrimSpace(v); id != "" {
				return id, nil
			}
		}
	}
	return "", status.Error(codes.Unauthenticated, IdentityHeader+" metadata is required")
}

func reply(v any) (*structpb.Struct, error) {
	out, err := encodeStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
