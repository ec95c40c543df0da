package fraud

import "strings"

// PreventFraudRouteName is the blocked-landing-page route; requests already
// there are never re-evaluated, which avoids redirect loops.
const PreventFraudRouteName = "PreventFraud"

// RouteGroup is a named bucket of storefront routes used to scope where IP
// reputation checks apply.
type RouteGroup struct {
	Name       string
	RouteNames []string
}

// Route group names selectable in settings.
const (
	GroupCustomer = "customer"
	GroupCatalog  = "catalog"
	GroupCheckout = "checkout"
)

// IPQualityGroups lists every selectable route group.
var IPQualityGroups = []RouteGroup{
	{
		Name: GroupCustomer,
		RouteNames: []string{
			"Login", "Register", "CustomerInfo", "CustomerAddresses",
			"CustomerOrders", "CustomerChangePassword", "PasswordRecovery",
		},
	},
	{
		Name: GroupCatalog,
		RouteNames: []string{
			"HomePage", "Category", "Manufacturer", "ProductDetails",
			"ProductSearch", "ProductsByTag", "NewProducts",
		},
	},
	{
		Name: GroupCheckout,
		RouteNames: []string{
			"ShoppingCart", "Checkout", "CheckoutOnePage",
			"CheckoutBillingAddress", "CheckoutShippingAddress",
			"CheckoutShippingMethod", "CheckoutPaymentMethod",
			"CheckoutPaymentInfo", "CheckoutConfirm",
		},
	},
}

// EmailValidationRouteNames are the routes whose POSTed Email field is scored.
var EmailValidationRouteNames = []string{"CustomerInfo", "Register"}

// DeviceFingerprintRouteNames are the routes the fingerprint collector is
// rendered on.
var DeviceFingerprintRouteNames = []string{
	"CustomerInfo", "CustomerChangePassword", "Register", "Login",
	"Checkout", "CheckoutOnePage",
}

// routeInGroups reports whether routeName belongs to at least one of the
// comma-separated group names. An unknown group name selects nothing.
func routeInGroups(groupCSV, routeName string) bool {
	for _, name := range strings.Split(groupCSV, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for _, group := range IPQualityGroups {
			if group.Name != name {
				continue
			}
			for _, rn := range group.RouteNames {
				if rn == routeName {
					return true
				}
			}
		}
	}
	return false
}

func routeInList(routes []string, routeName string) bool {
	for _, rn := range routes {
		if rn == routeName {
			return true
		}
	}
	return false
}
