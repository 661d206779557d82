package menu

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/digital-menu-service/internal/app/menu/cart"
	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
)

type codeRequest struct {
	Code string `json:"code"`
}

type listProductsRequest struct {
	Code      string `json:"code"`
	PageSize  int    `json:"pageSize"`
	PageToken string `json:"pageToken"`
}

type orderItem struct {
	ProductID   string  `json:"productId"`
	Quantity    float64 `json:"quantity"`
	Base        string  `json:"base"`
	Filling     string  `json:"filling"`
	Topping     string  `json:"topping"`
	Observation *string `json:"observation"`
}

type composeOrderRequest struct {
	Code     string `json:"code"`
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Items []orderItem `json:"items"`
}

type productRequest struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Price            priceText  `json:"price"`
	PromotionalPrice *priceText `json:"promotionalPrice"`
	SaleUnit         string     `json:"saleUnit"`
	Category         string     `json:"category"`
	ImageURL         string     `json:"imageUrl"`
	Available        *bool      `json:"available"`
	Customizable     bool       `json:"customizable"`
	Bases            []string   `json:"bases"`
	Fillings         []string   `json:"fillings"`
	Toppings         []string   `json:"toppings"`
}

type productIDRequest struct {
	ID string `json:"id"`
}

type optionRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// priceText accepts a price sent either as a JSON number or a string.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price must be a number or a string")
	}
	*p = priceText(n.String())
	return nil
}

// decodeStruct copies the fields of in into dst through their JSON shape.
func decodeStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return fmt.Errorf("request is required")
	}
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// encodeStruct renders v, a JSON-tagged value, as a Struct.
func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func mapProductInput(req productRequest) (domain.ProductInput, error) {
	price, err := domain.ParsePrice(string(req.Price))
	if err != nil {
		return domain.ProductInput{}, err
	}
	in := domain.ProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		SaleUnit:     domain.SaleUnit(req.SaleUnit),
		Category:     req.Category,
		ImageURL:     req.ImageURL,
		Available:    req.Available == nil || *req.Available,
		Customizable: req.Customizable,
		Bases:        req.Bases,
		Fillings:     req.Fillings,
		Toppings:     req.Toppings,
	}
	if in.SaleUnit == "" {
		in.SaleUnit = domain.SaleUnitUnit
	}
	if req.PromotionalPrice != nil && *req.PromotionalPrice != "" {
		promo, err := domain.ParsePrice(string(*req.PromotionalPrice))
		if err != nil {
			return domain.ProductInput{}, err
		}
		in.PromotionalPrice = &promo
	}
	return in, nil
}

// mapEditedProduct overlays the request onto the cached product. Omitted
// sale unit and availability keep their current values.
func mapEditedProduct(current domain.Product, req productRequest) (domain.Product, error) {
	in, err := mapProductInput(req)
	if err != nil {
		return domain.Product{}, err
	}
	out := current.Clone()
	out.Name = in.Name
	out.Description = in.Description
	out.Price = in.Price
	out.PromotionalPrice = in.PromotionalPrice
	if req.SaleUnit != "" {
		out.SaleUnit = in.SaleUnit
	}
	out.Category = in.Category
	out.ImageURL = in.ImageURL
	if req.Available != nil {
		out.Available = *req.Available
	}
	out.Customizable = in.Customizable
	out.Bases = in.Bases
	out.Fillings = in.Fillings
	out.Toppings = in.Toppings
	return out, nil
}

func mapChoices(item orderItem) cart.Choices {
	return cart.Choices{Base: item.Base, Filling: item.Filling, Topping: item.Topping}
}
