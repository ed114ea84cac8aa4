// Package bot is the webhook processing pipeline: ingesting customer
// messages, classifying them, and sending automated replies.
package bot

import "strings"

/************************************************
/**** MARK: INTENTS ****/
/************************************************/
type Intent string

const (
	INTENT_PRICE    Intent = "price_query"
	INTENT_HOURS    Intent = "hours_query"
	INTENT_LOCATION Intent = "location_query"
	INTENT_PHONE    Intent = "phone_query"
	INTENT_GREETING Intent = "greeting"
	INTENT_FAREWELL Intent = "farewell"
	INTENT_GENERAL  Intent = "general_faq"
)

/************************************************
/**** MARK: CONFIDENCE ****/
/************************************************/
type Confidence string

const (
	CONFIDENCE_HIGH   Confidence = "high"
	CONFIDENCE_MEDIUM Confidence = "medium"
	CONFIDENCE_LOW    Confidence = "low"
)

// Classification is the ephemeral result of classifying one message.
// CONFIDENCE_LOW is the handover trigger upstream.
type Classification struct {
	Intent     Intent
	Confidence Confidence
	Entity     string
}

// intentRules is checked in order; the first keyword hit wins. Price sits
// first on purpose: price questions dominate traffic and often carry a
// greeting or a "where" alongside ("hi, what's the price?" is a price
// question, not a greeting). Keywords cover Khmer and Latin script.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{INTENT_PRICE, []string{"តម្លៃ", "ថ្លៃ", "ប៉ុន្មាន", "price", "cost", "how much"}},
	{INTENT_HOURS, []string{"ម៉ោង", "បើក", "បិទ", "hour", "open", "close", "what time"}},
	{INTENT_LOCATION, []string{"ទីតាំង", "អាសយដ្ឋាន", "នៅឯណា", "នៅទីណា", "where", "location", "address", "map"}},
	{INTENT_PHONE, []string{"ទូរស័ព្ទ", "ទូរសព្ទ", "លេខទំនាក់ទំនង", "phone", "telephone", "call", "contact"}},
	{INTENT_GREETING, []string{"សួស្តី", "ជំរាបសួរ", "hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
	{INTENT_FAREWELL, []string{"លាហើយ", "ជំរាបលា", "អរគុណ", "bye", "goodbye", "thank", "thanks", "see you"}},
}

// fillerWords are dropped during entity extraction, both scripts.
var fillerWords = map[string]bool{
	// Khmer
	"តើ": true, "ដែរ": true, "ទេ": true, "បាន": true, "អី": true,
	"នេះ": true, "នោះ": true, "របស់": true, "អ្នក": true, "ខ្ញុំ": true,
	"មួយ": true, "ឬ": true,
	// English
	"the": true, "a": true, "an": true, "of": true, "for": true,
	"is": true, "are": true, "it": true, "this": true, "that": true,
	"what": true, "whats": true, "what's": true, "do": true, "does": true,
	"you": true, "your": true, "can": true, "i": true, "me": true,
	"please": true, "much": true, "how": true, "where": true, "find": true,
	"when": true, "which": true,
}

// Classify maps a customer message to an intent with a confidence level.
// Deterministic and stateless: lowercase, collapse exotic whitespace,
// then take the first keyword hit in priority order.
func Classify(message string) Classification {
	norm := normalizeText(message)
	if norm == "" {
		return Classification{Intent: INTENT_GENERAL, Confidence: CONFIDENCE_LOW}
	}

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if !matchesKeyword(norm, kw) {
				continue
			}
			if rule.intent == INTENT_PRICE {
				entity := extractEntity(norm)
				if entity != "" {
					return Classification{Intent: INTENT_PRICE, Confidence: CONFIDENCE_HIGH, Entity: entity}
				}
				return Classification{Intent: INTENT_PRICE, Confidence: CONFIDENCE_MEDIUM}
			}
			return Classification{Intent: rule.intent, Confidence: CONFIDENCE_HIGH}
		}
	}

	return Classification{Intent: INTENT_GENERAL, Confidence: CONFIDENCE_LOW}
}

// matchesKeyword reports whether kw occurs in norm. Khmer keywords match
// as plain substrings (Khmer writes without word spacing); Latin keywords
// match on word boundaries, so "hi" does not fire inside "this" or
// "shirt".
func matchesKeyword(norm, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(norm, kw)
	}
	for start := 0; ; {
		i := strings.Index(norm[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !isWordByte(norm[i-1])
		after := i+len(kw) == len(norm) || !isWordByte(norm[i+len(kw)])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// norm is already lowercased; bytes >= 0x80 belong to Khmer runes and
// count as boundaries, so mixed-script text like "សួស្តីhello" still hits.
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// normalizeText lowercases and collapses whitespace. Messenger clients on
// Khmer keyboards sneak in zero-width and non-breaking spaces, so those
// fold to plain spaces first.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(
		"\u00a0", " ", // no-break space
		"\u200b", " ", // zero-width space
		"\u200c", " ", // zero-width non-joiner
		"\u200d", " ", // zero-width joiner
		"\ufeff", " ", // byte order mark
	).Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// extractEntity pulls a candidate product name out of a price question:
// drop every price keyword, drop filler words, drop punctuation, and
// whatever survives is the entity.
func extractEntity(norm string) string {
	s := norm
	for _, kw := range intentRules[0].keywords {
		s = strings.ReplaceAll(s, kw, " ")
	}

	var kept []string
	for _, tok := range strings.Fields(s) {
		tok = strings.Trim(tok, "?!.,;:()\"'។៕៖")
		if tok == "" || fillerWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
