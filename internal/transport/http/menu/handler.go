package menu

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/contracts"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain/services"
	"github.com/murkotick/digital-menu-service/internal/app/menu/dto"
	"github.com/murkotick/digital-menu-service/internal/app/menu/order"
	"github.com/murkotick/digital-menu-service/internal/app/menu/resolver"
)

// sessionPrefix names the per-storefront cookie session holding the cart.
const sessionPrefix = "cardapio_"

type addItemRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Base        string  `json:"base"`
	Filling     string  `json:"filling"`
	Topping     string  `json:"topping"`
	Observation *string `json:"observation"`
}

type updateItemRequest struct {
	Key         string   `json:"key" binding:"required"`
	Quantity    *float64 `json:"quantity"`
	Step        int      `json:"step"`
	Observation *string  `json:"observation"`
}

type removeItemRequest struct {
	Key string `json:"key" binding:"required"`
}

type checkoutRequest struct {
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
}

// Handler serves the public storefront and the visitor cart.
type Handler struct {
	resolver *resolver.Resolver
	store    sessions.Store
	status   *services.StatusCalculator
	pricing  *services.PricingCalculator
	events   contracts.Publisher
	logger   *log.Logger
}

// NewHandler wires the storefront routes. Every cart mutation is announced on
// events as cart-changed with the full line list; events may be nil.
func NewHandler(res *resolver.Resolver, store sessions.Store, status *services.StatusCalculator, events contracts.Publisher, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		resolver: res,
		store:    store,
		status:   status,
		pricing:  services.NewPricingCalculator(),
		events:   events,
		logger:   logger,
	}
}

// NewRouter returns a gin engine with every storefront route registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/cardapio/:code")
	g.GET("", h.ShowMenu)
	g.GET("/status", h.ShowStatus)
	g.GET("/carrinho", h.ShowCart)
	g.POST("/carrinho", h.AddItem)
	g.PATCH("/carrinho", h.UpdateItem)
	g.POST("/carrinho/remover", h.RemoveItem)
	g.DELETE("/carrinho", h.ClearCart)
	g.POST("/checkout", h.Checkout)
}

func (h *Handler) ShowMenu(c *gin.Context) {
	b, err := h.resolver.ResolveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMenuDTO(b, h.status.IsOpen(b.Config), h.pricing))
}

func (h *Handler) ShowStatus(c *gin.Context) {
	b, err := h.resolver.ResolveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": b.Design.Code, "aberto": h.status.IsOpen(b.Config)})
}

func (h *Handler) ShowCart(c *gin.Context) {
	_, engine, ok := h.cart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewCartDTO(engine.Lines()))
}

// AddItem prices the pick against the live catalog and merges it into the cart.
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.resolver.ResolveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	var product *domain.Product
	for _, p := range b.Products {
		if p.ID == req.ProductID {
			product = &p
			break
		}
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "produto indisponível"})
		return
	}

	sess, engine, ok := h.cart(c)
	if !ok {
		return
	}
	choices := cart.Choices{Base: req.Base, Filling: req.Filling, Topping: req.Topping}
	engine.Add(h.pricing.LineFor(*product, req.Quantity, choices, req.Observation))
	h.saveCart(c, sess, engine)
}

// UpdateItem sets the quantity, steps it by one unit, or edits the observation.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, engine, ok := h.cart(c)
	if !ok {
		return
	}
	switch {
	case req.Quantity != nil:
		engine.SetQuantity(req.Key, *req.Quantity)
	case req.Step > 0:
		engine.Increment(req.Key)
	case req.Step < 0:
		engine.Decrement(req.Key)
	}
	if req.Observation != nil {
		engine.SetObservation(req.Key, *req.Observation)
	}
	h.saveCart(c, sess, engine)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, engine, ok := h.cart(c)
	if !ok {
		return
	}
	engine.Remove(req.Key)
	h.saveCart(c, sess, engine)
}

func (h *Handler) ClearCart(c *gin.Context) {
	sess, engine, ok := h.cart(c)
	if !ok {
		return
	}
	engine.Clear()
	h.saveCart(c, sess, engine)
}

// Checkout composes the WhatsApp order. The cart is cleared only once the
// message was built.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. Resolve the store phone
	b, err := h.resolver.ResolveByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	// 2. Compose from the visitor's cart
	sess, engine, ok := h.cart(c)
	if !ok {
		return
	}
	customer := order.Customer{Name: req.Customer.Name, Phone: req.Customer.Phone}
	o, err := order.Compose(engine.Lines(), engine.TotalPrice(), customer, b.Config.Phone)
	if err != nil {
		writeError(c, err)
		return
	}

	// 3. Clear and persist
	engine.Clear()
	if err := sess.Save(c.Request, c.Writer); err != nil {
		h.logger.Printf("http: save session after checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao salvar o carrinho"})
		return
	}
	c.JSON(http.StatusOK, dto.OrderDTO{Message: o.Message, DeepLink: o.DeepLink})
}

// cart opens the visitor's cart for the storefront in the path. It writes the
// error response itself and reports ok=false on failure.
func (h *Handler) cart(c *gin.Context) (*sessions.Session, *cart.Engine, bool) {
	code := domain.NormalizeTenantCode(c.Param("code"))
	if !domain.ValidTenantCode(code) {
		writeError(c, domain.ErrInvalidTenantCode)
		return nil, nil, false
	}
	// A cookie that no longer decodes yields a fresh session.
	sess, err := h.store.Get(c.Request, sessionPrefix+code)
	if err != nil {
		h.logger.Printf("http: session %s: %v", code, err)
	}
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sessão indisponível"})
		return nil, nil, false
	}
	return sess, cart.NewEngine(sessionKV{s: sess}, h.events, h.logger), true
}

func (h *Handler) saveCart(c *gin.Context, sess *sessions.Session, engine *cart.Engine) {
	if err := sess.Save(c.Request, c.Writer); err != nil {
		h.logger.Printf("http: save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao salvar o carrinho"})
		return
	}
	c.JSON(http.StatusOK, dto.NewCartDTO(engine.Lines()))
}
