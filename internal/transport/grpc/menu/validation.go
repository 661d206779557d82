package menu

import (
	"fmt"
	"strings"
)

func validateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code is required")
	}
	return nil
}

func validateComposeOrder(req composeOrderRequest) error {
	if err := validateCode(req.Code); err != nil {
		return err
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("items[%d].productId is required", i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("items[%d].quantity cannot be negative", i)
		}
	}
	return nil
}

func validateProduct(req productRequest, requireID bool) error {
	if requireID && strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(string(req.Price)) == "" {
		return fmt.Errorf("price is required")
	}
	return nil
}

func validateOption(req optionRequest) error {
	if req.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	return nil
}
