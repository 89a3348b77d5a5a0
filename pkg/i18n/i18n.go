// Package i18n holds the static UI translation tables served to clients.
// Lookups fall back to English, then to the key itself.
package i18n

// DefaultLang is used when the requested language has no table.
const DefaultLang = "en"

var tables = map[string]map[string]string{
	"en": {
		"dashboard":        "Dashboard",
		"customers":        "Customers",
		"orders":           "Orders",
		"bills":            "Bills",
		"measurements":     "Measurements",
		"reminders":        "Reminders",
		"users":            "Users",
		"history":          "History",
		"settings":         "Settings",
		"sign_out":         "Sign Out",
		"total_customers":  "Total Customers",
		"all_time_revenue": "All Time Revenue",
		"pending_balance":  "Pending Balance",
		"due_today":        "Due Today",
		"recent_activity":  "Recent Activity",
		"today_customers":  "Today",
		"this_week":        "This Week",
		"name":             "Name",
		"mobile":           "Mobile",
		"status":           "Status",
		"date":             "Date",
		"actions":          "Actions",
		"search":           "Search",
		"add_new":          "Add New",
		"delete":           "Delete",
		"edit":             "Edit",
		"save":             "Save",
		"cancel":           "Cancel",
		"id":               "ID",
		"photo":            "Photo",
		"gender":           "Gender",
		"last_visit":       "Last Visit",
		"total_orders":     "Total Orders",
		"male":             "Male",
		"female":           "Female",
		"all_paid":         "All Paid",
		"order_id":         "Order ID",
		"delivery_date":    "Delivery Date",
		"items":            "Items",
		"total_amount":     "Total Amount",
		"advance":          "Advance",
		"balance":          "Balance",
		"worker":           "Worker",
		"delivered":        "Delivered",
		"working":          "Working",
		"cancelled":        "Cancelled",
	},
	"hi": {
		"dashboard":        "डैशबोर्ड",
		"customers":        "ग्राहक",
		"orders":           "ऑर्डर",
		"bills":            "बिल",
		"measurements":     "माप",
		"reminders":        "रिमाइंडर",
		"users":            "कर्मचारी",
		"history":          "इतिहास",
		"settings":         "सेटिंग्स",
		"sign_out":         "साइन आउट",
		"total_customers":  "कुल ग्राहक",
		"all_time_revenue": "कुल कमाई",
		"pending_balance":  "बकाया राशि",
		"due_today":        "आज की डिलीवरी",
		"recent_activity":  "हाल की गतिविधि",
		"today_customers":  "आज",
		"this_week":        "इस सप्ताह",
		"name":             "नाम",
		"mobile":           "मोबाइल",
		"status":           "स्थिति",
		"date":             "दिनांक",
		"actions":          "क्रियाएँ",
		"search":           "खोजें",
		"add_new":          "नया जोड़ें",
		"delete":           "हटाएं",
		"edit":             "संपादित करें",
		"save":             "सहेजें",
		"cancel":           "रद्द करें",
		"id":               "आईडी",
		"photo":            "फोटो",
		"gender":           "लिंग",
		"last_visit":       "अंतिम विजिट",
		"total_orders":     "कुल ऑर्डर",
		"male":             "पुरुष",
		"female":           "महिला",
		"all_paid":         "पूर्ण भुगतान",
		"order_id":         "ऑर्डर आईडी",
		"delivery_date":    "डिलीवरी दिनांक",
		"items":            "आइटम",
		"total_amount":     "कुल राशि",
		"advance":          "एडवांस",
		"balance":          "बकाया",
		"worker":           "कारीगर",
		"delivered":        "डिलीवर किया",
		"working":          "कार्य प्रगति पर",
		"cancelled":        "रद्द",
	},
	"gu": {
		"dashboard":        "ડેશબોર્ડ",
		"customers":        "ગ્રાહકો",
		"orders":           "ઓર્ડર",
		"bills":            "બિલ",
		"measurements":     "માપ",
		"reminders":        "રિમાઇન્ડર",
		"users":            "વપરાશકર્તાઓ",
		"history":          "ઇતિહાસ",
		"settings":         "સેટિંગ્સ",
		"sign_out":         "લૉગ આઉટ",
		"total_customers":  "કુલ ગ્રાહકો",
		"all_time_revenue": "કુલ આવક",
		"pending_balance":  "બાકી રકમ",
		"due_today":        "આજે આપવાનાં",
		"recent_activity":  "તાજેતરની પ્રવૃત્તિ",
		"today_customers":  "આજે",
		"this_week":        "આ અઠવાડિયે",
		"name":             "નામ",
		"mobile":           "મોબાઇલ",
		"status":           "સ્થિતિ",
		"date":             "તારીખ",
		"actions":          "ક્રિયાઓ",
		"search":           "શોધો",
		"add_new":          "નવું ઉમેરો",
		"delete":           "કાઢી નાખો",
		"edit":             "ફેરફાર કરો",
		"save":             "સાચવો",
		"cancel":           "રદ કરો",
		"id":               "આઈડી",
		"photo":            "ફોટો",
		"gender":           "લિંગ",
		"last_visit":       "છેલ્લી મુલાકાત",
		"total_orders":     "કુલ ઓર્ડર",
		"male":             "પુરુષ",
		"female":           "સ્ત્રી",
		"all_paid":         "બધું ચૂકવાઈ ગયું",
		"order_id":         "ઓર્ડર આઈડી",
		"delivery_date":    "ડિલિવરી તારીખ",
		"items":            "વસ્તુઓ",
		"total_amount":     "કુલ રકમ",
		"advance":          "એડવાન્સ",
		"balance":          "બાકી",
		"worker":           "કારીગર",
		"delivered":        "ડિલિવર થયું",
		"working":          "કામ ચાલુ",
		"cancelled":        "રદ થયેલ",
	},
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{"en", "hi", "gu"}
}

// Supported reports whether lang has its own table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Table returns the full translation map for lang, falling back to English.
func Table(lang string) map[string]string {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[DefaultLang]
}

// T translates key in lang; unknown keys come back unchanged.
func T(lang, key string) string {
	if v, ok := Table(lang)[key]; ok {
		return v
	}
	if v, ok := tables[DefaultLang][key]; ok {
		return v
	}
	return key
}
