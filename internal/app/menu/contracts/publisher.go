package contracts

// Scopes carried by tenant-data-changed events.
const (
	ScopeAll      = "all"
	ScopeDesign   = "design"
	ScopeConfig   = "config"
	ScopeProducts = "produtos"
)

// Publisher is the write side of the cross-tab bus, as used by the data sync
// controller and the cart engine.
type Publisher interface {
	PublishTenantChanged(tenantID, scope string)
	PublishCartChanged(payload any)
}
