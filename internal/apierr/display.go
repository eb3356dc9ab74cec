package apierr

import "errors"

var codeMessages = map[Code]string{
	CodeNotFound:          "the requested item does not exist",
	CodeInsufficientStock: "insufficient stock, please adjust the quantity",
	CodeNotInCart:         "some items are no longer in the cart, please select again",
	CodeInvalidTransition: "the order status does not allow this action",
	CodeEmptySelection:    "please select at least one item",
	CodeCanceled:          "the request was canceled",
}

// opFallbacks are shown when the code has no specific message.
var opFallbacks = map[string]string{
	"cart.load":         "failed to load the cart, please try again later",
	"cart.add":          "failed to add the item, please try again later",
	"cart.update":       "failed to update the quantity, please try again later",
	"cart.select":       "failed to update the selection, please try again later",
	"cart.remove":       "failed to remove the items, please try again later",
	"cart.clear":        "failed to clear the cart, please try again later",
	"order.create":      "failed to create the order, please try again later",
	"order.list":        "failed to load orders, please try again later",
	"order.detail":      "failed to load the order, please try again later",
	"order.pay":         "payment failed, please try again later",
	"order.cancel":      "failed to cancel the order, please try again later",
	"order.complete":    "failed to confirm receipt, please try again later",
	"catalog.list":      "failed to load products, please try again later",
	"catalog.detail":    "failed to load the product, please try again later",
	"stats.total":       "failed to load total sales, please try again later",
	"stats.daily_sales": "failed to load daily sales, please try again later",
	"stats.daily_order": "failed to load daily orders, please try again later",
	"stats.top":         "failed to load top products, please try again later",
	"stats.seven_days":  "failed to load the seven-day rollup, please try again later",
}

const genericFallback = "something went wrong, please try again later"

// Display returns the user-facing message for err. Validation errors show
// their own message; other failures show a code-specific message or the
// operation's fallback.
func Display(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return genericFallback
	}
	if ae.Kind == KindValidation && ae.Message != "" {
		return ae.Message
	}
	if msg, ok := codeMessages[ae.Code]; ok {
		return msg
	}
	if msg, ok := opFallbacks[ae.Op]; ok {
		return msg
	}
	return genericFallback
}
