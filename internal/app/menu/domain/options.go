package domain

// OptionKind names one of the three customization option lists of a tenant.
type OptionKind string

const (
	OptionBase    OptionKind = "base"
	OptionFilling OptionKind = "filling"
	OptionTopping OptionKind = "topping"
)

// OptionKinds lists every kind in display order.
var OptionKinds = []OptionKind{OptionBase, OptionFilling, OptionTopping}

func (k OptionKind) Valid() bool {
	switch k {
	case OptionBase, OptionFilling, OptionTopping:
		return true
	}
	return false
}

// Label is the Portuguese name used in order messages.
func (k OptionKind) Label() string {
	switch k {
	case OptionBase:
		return "Massa"
	case OptionFilling:
		return "Recheio"
	case OptionTopping:
		return "Cobertura"
	}
	return string(k)
}
