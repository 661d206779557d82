// Package order turns a cart into the WhatsApp message a visitor sends to the
// store, and the wa.me link that opens it.
package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

// DefaultCountryCode is prefixed to destination numbers of 11 digits or fewer.
const DefaultCountryCode = "55"

const deepLinkBase = "https://wa.me/"

var (
	ErrEmptyCart            = fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	ErrMissingCustomerName  = fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	ErrMissingCustomerPhone = fmt.Errorf("%w: customer phone is required", domain.ErrValidation)
	ErrInvalidDestination   = fmt.Errorf("%w: store phone has no digits", domain.ErrValidation)
)

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Order struct {
	Message  string `json:"message"`
	DeepLink string `json:"deepLink"`
}

// Compose renders the order. It is pure: the same input always yields the
// same bytes.
func Compose(lines []cart.Line, totalPrice decimal.Decimal, customer Customer, destinationPhone string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	name := strings.TrimSpace(customer.Name)
	if name == "" {
		return Order{}, ErrMissingCustomerName
	}
	if Digits(customer.Phone) == "" {
		return Order{}, ErrMissingCustomerPhone
	}
	dest := DestinationNumber(destinationPhone)
	if dest == "" {
		return Order{}, ErrInvalidDestination
	}

	msg := Message(lines, totalPrice, Customer{Name: name, Phone: strings.TrimSpace(customer.Phone)})
	return Order{
		Message:  msg,
		DeepLink: deepLinkBase + dest + "?text=" + EncodeURIComponent(msg),
	}, nil
}

// Message builds the message body without validating its input.
func Message(lines []cart.Line, totalPrice decimal.Decimal, customer Customer) string {
	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer um pedido:\n\n")
	fmt.Fprintf(&b, "*Cliente:* %s\n", customer.Name)
	fmt.Fprintf(&b, "*Telefone:* %s\n\n", customer.Phone)
	b.WriteString("*Itens do pedido:*\n")

	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, l.ProductName)
		fmt.Fprintf(&b, "   Quantidade: %s\n", FormatQuantity(l.Quantity, l.SaleUnit))
		for _, c := range []struct {
			kind  domain.OptionKind
			value string
		}{
			{domain.OptionBase, l.ChosenBase},
			{domain.OptionFilling, l.ChosenFilling},
			{domain.OptionTopping, l.ChosenTopping},
		} {
			if v := strings.TrimSpace(c.value); v != "" {
				fmt.Fprintf(&b, "   %s: %s\n", c.kind.Label(), v)
			}
		}
		if l.Observation != nil {
			if obs := strings.TrimSpace(*l.Observation); obs != "" {
				fmt.Fprintf(&b, "   Observação: %s\n", obs)
			}
		}
		fmt.Fprintf(&b, "   Subtotal: %s\n", domain.FormatBRL(l.Subtotal()))
	}

	fmt.Fprintf(&b, "\n*Total: %s*\n\n", domain.FormatBRL(totalPrice))
	b.WriteString("Pode confirmar meu pedido, por favor?")
	return b.String()
}

// FormatQuantity renders "1,5kg" for weights and "2 unidade(s)" otherwise.
func FormatQuantity(qty float64, unit domain.SaleUnit) string {
	n := strings.Replace(decimal.NewFromFloat(qty).String(), ".", ",", 1)
	if unit.IsWeight() {
		return n + "kg"
	}
	return n + " unidade(s)"
}

// Digits strips everything except ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// DestinationNumber normalizes a store phone for wa.me. Numbers without a
// country code (11 digits or fewer) get DefaultCountryCode.
func DestinationNumber(phone string) string {
	d := Digits(phone)
	if d == "" {
		return ""
	}
	if len(d) <= 11 {
		return DefaultCountryCode + d
	}
	return d
}

// EncodeURIComponent escapes s like the JavaScript function of the same name,
// which is what wa.me expects in its text parameter.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
