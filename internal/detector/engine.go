package detector

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"content-fraud-detection/internal/core"
)

// Keyword gate for the text pipeline: a cheap substring check, distinct
// from the regex scan, that hard-blocks without invoking the classifier.
var offPlatformKeywords = []string{"telegram", "whatsapp", "discord", "t.me", "wa.me"}

// Image descriptions shorter than this with no signals carry nothing
// worth classifying.
const minImageTextLen = 20

// Engine runs one pipeline per content variant and owns the fail-closed
// policy. Stateless across requests; safe for concurrent use.
type Engine struct {
	classifier core.Classifier
	extractor  *Extractor
	walker     *ArchiveWalker

	maxTextChars      int
	maxExtractedChars int
	failClosed        bool
}

func NewEngine(classifier core.Classifier, extractor *Extractor, walker *ArchiveWalker, maxTextChars, maxExtractedChars int, failClosed bool) *Engine {
	return &Engine{
		classifier:        classifier,
		extractor:         extractor,
		walker:            walker,
		maxTextChars:      maxTextChars,
		maxExtractedChars: maxExtractedChars,
		failClosed:        failClosed,
	}
}

// CheckText decides a chat message.
func (e *Engine) CheckText(ctx context.Context, message string) core.Decision {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return core.NewDecision(false, "", "", core.ConfidenceHigh, []string{SignalEmptyMessage})
	}

	msg = clampText(msg, e.maxTextChars)
	signals := Scan(msg)

	// Hard block: off-platform redirection, no classifier involved.
	lower := strings.ToLower(msg)
	for _, kw := range offPlatformKeywords {
		if strings.Contains(lower, kw) {
			return core.NewDecision(true, "off_platform_redirect",
				"Off-platform contact request detected.", core.ConfidenceHigh, signals)
		}
	}

	payload := "Content type: TEXT\nMessage:\n" + msg + "\nSignals:\n" + strings.Join(signals, "\n")
	return attachSignals(e.classify(ctx, payload), signals)
}

// CheckImage decides an uploaded image via the vision description.
func (e *Engine) CheckImage(ctx context.Context, image []byte) core.Decision {
	if len(image) == 0 {
		return core.NewDecision(false, "", "", core.ConfidenceHigh, []string{SignalEmptyImage})
	}

	desc, err := e.classifier.DescribeImage(ctx, image)
	if err != nil {
		if e.failClosed {
			return core.NewDecision(true, "uncertain", "Unable to inspect image safely.",
				core.ConfidenceLow, []string{SignalVisionDown})
		}
		return core.NewDecision(false, "", "", core.ConfidenceLow, []string{SignalVisionDown})
	}

	signals := Scan(desc)

	if len(signals) == 0 && utf8.RuneCountInString(desc) < minImageTextLen {
		return core.NewDecision(false, "", "", core.ConfidenceMedium, []string{SignalNoTextDetected})
	}

	if len(signals) == 0 {
		// Scam intent without matching keywords is still possible.
		payload := "Content type: IMAGE\nExtracted description:\n" + desc
		return attachSignals(e.classify(ctx, payload), []string{SignalVisionExtracted})
	}

	payload := "Content type: IMAGE\nExtracted description:\n" + desc + "\nSignals:\n" + strings.Join(signals, "\n")
	pre := append([]string{SignalVisionExtracted}, signals...)
	return attachSignals(e.classify(ctx, payload), pre)
}

// CheckFile decides an uploaded file or archive.
func (e *Engine) CheckFile(ctx context.Context, filename string, data []byte) core.Decision {
	ext := strings.ToLower(filepath.Ext(filename))

	if HardBlockExts[ext] {
		return core.NewDecision(true, "malicious_file", "Blocked file type",
			core.ConfidenceHigh, []string{SignalBlockedExt})
	}

	var texts []string
	if IsContainer(ext) {
		fragments, err := e.walker.Walk(data, filename, 0)
		if err != nil {
			var blocked *BlockedEntryError
			if errors.As(err, &blocked) {
				return core.NewDecision(true, "malicious_archive", blocked.Error(),
					core.ConfidenceHigh, []string{SignalBlockedInArchive})
			}
			if errors.Is(err, ErrUnsupportedArchive) {
				return core.NewDecision(true, "unsupported_archive",
					"Archive format is not supported on this system",
					core.ConfidenceLow, []string{SignalDecoderMissing})
			}
			// The walker only fails with the two conditions above.
			return core.NewDecision(e.failClosed, "opaque_file", err.Error(),
				core.ConfidenceLow, []string{SignalNoText})
		}
		texts = fragments
	} else {
		text := e.extractor.ExtractText(data, filename)
		if strings.TrimSpace(text) != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return core.NewDecision(e.failClosed, "opaque_file", "No readable content inside file",
			core.ConfidenceLow, []string{SignalNoText})
	}

	combined := clampText(strings.Join(texts, "\n\n"), e.maxExtractedChars)
	signals := Scan(combined)

	// Deterministic short-circuits: unambiguous intent never depends on
	// the external classifier succeeding.
	if hasMessengerSignal(signals) {
		return core.NewDecision(true, "archive_off_platform",
			"Off-platform contact found inside file", core.ConfidenceHigh, signals)
	}
	if hasSignal(signals, SignalPhoneNumberLike) {
		return core.NewDecision(true, "archive_contact_info",
			"Phone number found inside file", core.ConfidenceHigh, signals)
	}
	if hasPaymentSignal(signals) {
		return core.NewDecision(true, "archive_crypto_request",
			"Crypto/payment request found inside file", core.ConfidenceHigh, signals)
	}

	payload := "Content type: ARCHIVE\nFilename: " + filename + "\n\n" + combined
	return attachSignals(e.classify(ctx, payload), signals)
}

// classify calls the gateway and resolves every failure mode into a
// terminal Decision, applying the fail-closed policy.
func (e *Engine) classify(ctx context.Context, content string) core.Decision {
	verdict, err := e.classifier.Classify(ctx, content)
	if err != nil {
		signal := SignalClassifierDown
		if errors.Is(err, core.ErrMalformedVerdict) {
			signal = SignalJSONParseFailed
		}
		if e.failClosed {
			return core.NewDecision(true, "uncertain", "Unable to validate content safely.",
				core.ConfidenceLow, []string{signal})
		}
		return core.NewDecision(false, "", "", core.ConfidenceLow, []string{signal})
	}

	confidence := verdict.Confidence
	if !core.ValidConfidence(confidence) {
		if e.failClosed {
			confidence = core.ConfidenceLow
		} else {
			confidence = core.ConfidenceMedium
		}
	}
	return core.NewDecision(verdict.Fraud, verdict.Category, verdict.Reason, confidence, nil)
}

// attachSignals prepends the heuristic signals discovered before the
// classifier call to whatever signals the fallback path produced.
func attachSignals(d core.Decision, pre []string) core.Decision {
	merged := make([]string, 0, len(pre)+len(d.Signals))
	merged = append(merged, pre...)
	merged = append(merged, d.Signals...)
	d.Signals = merged
	return d
}

// clampText truncates to limit runes, marking the cut with an ellipsis.
func clampText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
