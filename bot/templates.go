package bot

import (
	"fmt"
	"strings"
	"time"

	"bayon/models"
)

// Reply templates, Khmer-first. Every customer-facing string opens or
// closes with a courtesy marker (សូម / អរគុណ) — the audience expects
// polite register, this is not cosmetic.

var khmerWeekdays = [7]string{
	"អាទិត្យ", "ចន្ទ", "អង្គារ", "ពុធ", "ព្រហស្បតិ៍", "សុក្រ", "សៅរ៍",
}

// FormatPrice renders a stored price in its currency. Only USD and KHR
// circulate here; anything else falls back to "amount CODE".
func FormatPrice(price float64, currency string) string {
	switch strings.ToUpper(currency) {
	case "USD":
		return fmt.Sprintf("$%.2f", price)
	case "KHR":
		return fmt.Sprintf("%.0f៛", price)
	default:
		return fmt.Sprintf("%.2f %s", price, strings.ToUpper(currency))
	}
}

// TemplatePriceFound quotes exactly the stored price, nothing else.
func TemplatePriceFound(p *models.Product) string {
	return fmt.Sprintf("%s មានតម្លៃ %s ។ សូមអរគុណសម្រាប់ការសាកសួរ!",
		p.Name, FormatPrice(p.Price, p.Currency))
}

// TemplateProductList answers a price question that named no product.
func TemplateProductList(products []models.Product) string {
	var b strings.Builder
	b.WriteString("សូមជម្រាបជូនតម្លៃផលិតផលរបស់យើង៖\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s — %s\n", p.Name, FormatPrice(p.Price, p.Currency))
	}
	b.WriteString("សូមអរគុណ!")
	return b.String()
}

// TemplateProductNotFound admits the product is unknown and offers what is
// actually on file instead of guessing.
func TemplateProductNotFound(query string, alternatives []models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "សូមអភ័យទោស យើងមិនមានផលិតផលឈ្មោះ \"%s\" ទេ។", query)
	if len(alternatives) > 0 {
		b.WriteString("\nផលិតផលដែលយើងមាន៖\n")
		for _, p := range alternatives {
			fmt.Fprintf(&b, "• %s — %s\n", p.Name, FormatPrice(p.Price, p.Currency))
		}
	}
	b.WriteString("\nសូមអរគុណ!")
	return b.String()
}

// TemplateHours reports whether the shop is open right now; when closed it
// names the next opening time and weekday.
func TemplateHours(hours []models.OpeningHour, now time.Time) string {
	if len(hours) == 0 {
		return TemplateNoHoursData()
	}
	if IsOpenAt(hours, now) {
		return "បាទ/ចាស ឥឡូវនេះហាងកំពុងបើក។ សូមអញ្ជើញមកបាន!"
	}
	if wd, openTime, ok := NextOpening(hours, now); ok {
		return fmt.Sprintf("សូមអភ័យទោស ឥឡូវនេះហាងបិទហើយ។ ហាងនឹងបើកវិញម៉ោង %s ថ្ងៃ%s។ សូមអរគុណ!",
			openTime, khmerWeekdays[wd])
	}
	return TemplateNoHoursData()
}

// TemplateAddress states the recorded address only.
func TemplateAddress(businessName, address string) string {
	if businessName != "" {
		return fmt.Sprintf("សូមជម្រាបជូន %s មានទីតាំងនៅ៖ %s ។ សូមអរគុណ!", businessName, address)
	}
	return fmt.Sprintf("សូមជម្រាបជូន ហាងយើងមានទីតាំងនៅ៖ %s ។ សូមអរគុណ!", address)
}

// TemplatePhone states the recorded phone number only.
func TemplatePhone(phone string) string {
	return fmt.Sprintf("សូមទំនាក់ទំនងមកលេខ %s ។ សូមអរគុណ!", phone)
}

// TemplateGreeting alternates between a time-of-day greeting and a generic
// thanks, so repeat customers do not see the same line every time.
func TemplateGreeting(businessName string, now time.Time) string {
	if now.Unix()%2 == 1 {
		if businessName != "" {
			return fmt.Sprintf("សួស្តី! សូមអរគុណដែលបានទាក់ទងមក %s ។ តើយើងអាចជួយអ្វីបានដែរ?", businessName)
		}
		return "សួស្តី! សូមអរគុណដែលបានទាក់ទងមកយើងខ្ញុំ។ តើយើងអាចជួយអ្វីបានដែរ?"
	}

	var part string
	switch h := now.Hour(); {
	case h < 12:
		part = "អរុណសួស្តី"
	case h < 18:
		part = "ទិវាសួស្តី"
	default:
		part = "សាយណ្ហសួស្តី"
	}
	if businessName != "" {
		return fmt.Sprintf("%s! សូមស្វាគមន៍មកកាន់ %s ។ តើយើងអាចជួយអ្វីបានដែរ?", part, businessName)
	}
	return fmt.Sprintf("%s! តើយើងអាចជួយអ្វីបានដែរ?", part)
}

// TemplateFarewell alternates between two closing lines.
func TemplateFarewell(now time.Time) string {
	if now.Unix()%2 == 1 {
		return "សូមអរគុណច្រើន! ជួបគ្នាពេលក្រោយ។"
	}
	return "អរគុណសម្រាប់ការទាក់ទងមក! សូមមានថ្ងៃល្អ។"
}

// No-data fallbacks. The bot never invents prices, hours, addresses or
// phone numbers; when nothing is recorded it says so and defers to the
// owner.

func TemplateNoPriceData() string {
	return "សូមអភ័យទោស យើងមិនទាន់មានតារាងតម្លៃនៅទីនេះទេ។ ម្ចាស់ហាងនឹងឆ្លើយតបក្នុងពេលឆាប់ៗ។ សូមអរគុណ!"
}

func TemplateNoHoursData() string {
	return "សូមអភ័យទោស យើងមិនទាន់មានព័ត៌មានម៉ោងបើកនៅទីនេះទេ។ ម្ចាស់ហាងនឹងឆ្លើយតបក្នុងពេលឆាប់ៗ។ សូមអរគុណ!"
}

func TemplateNoAddressData() string {
	return "សូមអភ័យទោស យើងមិនទាន់មានអាសយដ្ឋាននៅទីនេះទេ។ ម្ចាស់ហាងនឹងឆ្លើយតបក្នុងពេលឆាប់ៗ។ សូមអរគុណ!"
}

func TemplateNoPhoneData() string {
	return "សូមអភ័យទោស យើងមិនទាន់មានលេខទូរស័ព្ទនៅទីនេះទេ។ ម្ចាស់ហាងនឹងឆ្លើយតបក្នុងពេលឆាប់ៗ។ សូមអរគុណ!"
}

// TemplateHandover is the generic reply when no intent matched; a human
// will follow up.
func TemplateHandover() string {
	return "សូមអរគុណសម្រាប់សាររបស់អ្នក! ម្ចាស់ហាងនឹងឆ្លើយតបដោយផ្ទាល់ក្នុងពេលឆាប់ៗនេះ។"
}
