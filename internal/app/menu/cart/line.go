package cart

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

// Choices are the customization values picked for one line. Empty means none.
type Choices struct {
	Base    string `json:"base,omitempty"`
	Filling string `json:"filling,omitempty"`
	Topping string `json:"topping,omitempty"`
}

// Line is one entry of the cart. ProductName is a snapshot taken when the line
// was added so the order message never needs the catalog.
type Line struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      float64         `json:"quantity"`
	SaleUnit      domain.SaleUnit `json:"saleUnit"`
	Observation   *string         `json:"observation,omitempty"`
	ChosenBase    string          `json:"chosenBase,omitempty"`
	ChosenFilling string          `json:"chosenFilling,omitempty"`
	ChosenTopping string          `json:"chosenTopping,omitempty"`
}

// Key is the merge identity: product plus the three chosen values.
func (l Line) Key() string {
	return strings.Join([]string{
		strconv.Quote(l.ProductID),
		strconv.Quote(l.ChosenBase),
		strconv.Quote(l.ChosenFilling),
		strconv.Quote(l.ChosenTopping),
	}, ":")
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromFloat(l.Quantity))
}

// ItemCount is how much the line contributes to the cart badge: weights count
// as-is, countable units are truncated to whole items.
func (l Line) ItemCount() float64 {
	if l.SaleUnit.IsWeight() {
		return l.Quantity
	}
	return math.Floor(l.Quantity)
}

// Choices returns the chosen values as a Choices value.
func (l Line) Choices() Choices {
	return Choices{Base: l.ChosenBase, Filling: l.ChosenFilling, Topping: l.ChosenTopping}
}

func (l Line) clone() Line {
	if l.Observation != nil {
		obs := *l.Observation
		l.Observation = &obs
	}
	return l
}

// NewLine builds a line for product at the already resolved unit price.
// Choices are ignored unless the product is customizable.
func NewLine(p domain.Product, unitPrice decimal.Decimal, quantity float64, choices Choices, observation *string) Line {
	l := Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		SaleUnit:    p.SaleUnit,
		Observation: observation,
	}
	if p.Customizable {
		l.ChosenBase = strings.TrimSpace(choices.Base)
		l.ChosenFilling = strings.TrimSpace(choices.Filling)
		l.ChosenTopping = strings.TrimSpace(choices.Topping)
	}
	return l.clone()
}
