package i18n

import "fmt"

// The host storefront owns real localization; this catalog is the plugin-side
// lookup used for messages the fraud engine emits itself.

const (
	KeyPreventFraudContent = "prevent_fraud.content"
	KeyOrderFraudNote      = "order.fraud_detected_note"
	KeyOrderStatusPrefix   = "order.status."
)

var messages = map[string]map[string]string{
	"en": {
		KeyPreventFraudContent:      "Your request looks suspicious and has been blocked. If you believe this is a mistake, please contact the store owner.",
		KeyOrderFraudNote:           "Potential fraud detected. The order status has been changed to %s.",
		KeyOrderStatusPrefix + "10": "Pending",
		KeyOrderStatusPrefix + "20": "Processing",
		KeyOrderStatusPrefix + "30": "Complete",
		KeyOrderStatusPrefix + "40": "Cancelled",
	},
	"de": {
		KeyPreventFraudContent:      "Ihre Anfrage wirkt verdächtig und wurde blockiert. Wenn Sie dies für einen Fehler halten, wenden Sie sich bitte an den Shop-Betreiber.",
		KeyOrderFraudNote:           "Möglicher Betrug erkannt. Der Bestellstatus wurde auf %s geändert.",
		KeyOrderStatusPrefix + "10": "Ausstehend",
		KeyOrderStatusPrefix + "20": "In Bearbeitung",
		KeyOrderStatusPrefix + "30": "Abgeschlossen",
		KeyOrderStatusPrefix + "40": "Storniert",
	},
}

// Catalog resolves message keys for a working language, falling back to
// English and finally to the key itself so a missing resource never blanks
// user-facing output.
type Catalog struct {
	lang string
}

// New returns a catalog bound to the given language code ("en", "de", ...).
func New(lang string) *Catalog {
	if _, ok := messages[lang]; !ok {
		lang = "en"
	}
	return &Catalog{lang: lang}
}

// T looks up a message by key and formats optional arguments into it.
func (c *Catalog) T(key string, args ...interface{}) string {
	msg, ok := messages[c.lang][key]
	if !ok {
		msg, ok = messages["en"][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
