package detector

import (
	"regexp"
	"strings"
)

// Signal tags referenced outside the pattern table.
const (
	SignalPhoneNumberLike  = "phone_number_like"
	SignalVisionExtracted  = "vision_extracted"
	SignalEmptyMessage     = "empty_message"
	SignalEmptyImage       = "empty_image"
	SignalNoTextDetected   = "image_no_text_detected"
	SignalBlockedExt       = "blocked_ext"
	SignalBlockedInArchive = "blocked_inside_archive"
	SignalDecoderMissing   = "archive_decoder_missing"
	SignalNoText           = "no_text"
	SignalJSONParseFailed  = "json_parse_failed"
	SignalClassifierDown   = "classifier_unavailable"
	SignalVisionDown       = "vision_unavailable"
)

// signalPattern pairs a stable tag with its compiled expression. Tags are
// part of the decision contract: the file pipeline short-circuits on them.
type signalPattern struct {
	Tag string
	Re  *regexp.Regexp
}

// Fixed ordered scan list. Input is lowercased before matching, so the
// patterns are written lowercase.
var suspiciousPatterns = []signalPattern{
	{"url", regexp.MustCompile(`https?://`)},
	{"messenger_telegram", regexp.MustCompile(`\btelegram\b|\bt\.me\b|\btelegram\.me\b`)},
	{"messenger_whatsapp", regexp.MustCompile(`\bwhatsapp\b|\bwa\.me\b`)},
	{"messenger_discord", regexp.MustCompile(`\bdiscord\b|\bdiscord\.gg\b`)},
	{"email_address", regexp.MustCompile(`\bgmail\b|\b@\w+\.\w+\b`)},
	{"contact_solicitation", regexp.MustCompile(`\bcall me\b|\btext me\b|\bemail me\b`)},
	{"contact_request", regexp.MustCompile(`\bphone\b|\bnumber\b|\bcontact me\b`)},
	{"payment_method", regexp.MustCompile(`\bwire\b|\bbank\b|\btransfer\b|\bgift card\b`)},
	{"crypto_mention", regexp.MustCompile(`\bcrypto\b|\busdt\b|\bbtc\b|\beth\b`)},
	{"crypto_address", regexp.MustCompile(`\b0x[a-f0-9]{40}\b`)},
	{"crypto_tron", regexp.MustCompile(`\b(tron|trx)\b`)},
	{"credential_phishing", regexp.MustCompile(`\bseed phrase\b|\bprivate key\b`)},
}

// Stricter phone heuristic, evaluated on the raw (non-lowercased) text:
// leading digit, 7+ digits/separators, trailing digit.
var phonePattern = regexp.MustCompile(`\+?\d[\d\-\s().]{7,}\d`)

// Scan runs the heuristic pattern list over text and returns the tags of
// every pattern that matched, in pattern order. Pure and deterministic:
// identical input always yields the identical sequence. Callers clamp
// text length before scanning.
func Scan(text string) []string {
	lower := strings.ToLower(text)
	var signals []string
	for _, p := range suspiciousPatterns {
		if p.Re.MatchString(lower) {
			signals = append(signals, p.Tag)
		}
	}
	if phonePattern.MatchString(text) {
		signals = append(signals, SignalPhoneNumberLike)
	}
	return signals
}

// hasMessengerSignal reports whether any off-platform messenger pattern fired.
func hasMessengerSignal(signals []string) bool {
	for _, s := range signals {
		if strings.HasPrefix(s, "messenger_") {
			return true
		}
	}
	return false
}

// hasPaymentSignal reports whether a payment or crypto pattern fired.
func hasPaymentSignal(signals []string) bool {
	for _, s := range signals {
		switch s {
		case "payment_method", "crypto_mention", "crypto_address", "crypto_tron":
			return true
		}
	}
	return false
}

func hasSignal(signals []string, tag string) bool {
	for _, s := range signals {
		if s == tag {
			return true
		}
	}
	return false
}
