package fulfillment

import (
	"fmt"
	"strings"
	"time"
)

// feedbackTTL is how long scan feedback stays visible before the UI clears it.
const feedbackTTL = 3 * time.Second

// Feedback is the transient outcome of the latest scan, shown next to the
// scanner input. It self-expires after feedbackTTL.
type Feedback struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	at      time.Time
}

// Session holds one pick list while it is being worked. It is not safe for
// concurrent use; callers serialize access (the packing station drives one
// scan at a time).
type Session struct {
	entries   []*PickListEntry
	byBarcode map[string]*PickListEntry
	byProduct map[int]*PickListEntry
	lastScan  string
	feedback  *Feedback
	ttl       time.Duration
	now       func() time.Time
}

// NewSession starts a scan session over the given pick list. The barcode
// index is built once here rather than rescanned per submission.
func NewSession(entries []*PickListEntry) *Session {
	s := &Session{
		entries:   entries,
		byBarcode: make(map[string]*PickListEntry),
		byProduct: make(map[int]*PickListEntry),
		ttl:       feedbackTTL,
		now:       time.Now,
	}
	for _, e := range entries {
		s.byProduct[e.ProductID] = e
		if e.Barcode == "" {
			continue
		}
		// First entry wins on duplicate barcodes.
		if _, exists := s.byBarcode[e.Barcode]; !exists {
			s.byBarcode[e.Barcode] = e
		}
	}
	return s
}

// Entries returns the pick list in display order.
func (s *Session) Entries() []*PickListEntry {
	return s.entries
}

// Entry returns the pick-list entry for a product id, or nil.
func (s *Session) Entry(productID int) *PickListEntry {
	return s.byProduct[productID]
}

// LastScan returns the last successfully matched identifier.
func (s *Session) LastScan() string {
	return s.lastScan
}

// Feedback returns the current scan feedback, or nil once it has expired.
func (s *Session) Feedback() *Feedback {
	if s.feedback == nil || s.now().Sub(s.feedback.at) > s.ttl {
		return nil
	}
	return s.feedback
}

func (s *Session) setFeedback(success bool, format string, args ...any) *Feedback {
	s.feedback = &Feedback{
		Success: success,
		Message: fmt.Sprintf(format, args...),
		at:      s.now(),
	}
	return s.feedback
}

// isNumeric reports whether v consists solely of ASCII digits.
func isNumeric(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeCandidates returns the identifiers to try for a raw scan: the raw
// value itself, and for purely numeric input its leading-zero toggle. Scanners
// and catalog data disagree about zero-padding, so "0123" must also try "123"
// and "123" must also try "0123". "1230" gets only "01230" as its variant and
// therefore matches neither.
func normalizeCandidates(raw string) []string {
	candidates := []string{raw}
	if !isNumeric(raw) {
		return candidates
	}
	if strings.HasPrefix(raw, "0") && len(raw) > 1 {
		candidates = append(candidates, raw[1:])
	} else {
		candidates = append(candidates, "0"+raw)
	}
	return candidates
}

// SubmitScan reconciles one scanned or hand-typed identifier against the pick
// list. Empty input is a no-op returning nil. The returned feedback is also
// retained on the session until it expires.
func (s *Session) SubmitScan(identifier string) *Feedback {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}

	var entry *PickListEntry
	for _, candidate := range normalizeCandidates(identifier) {
		if e, ok := s.byBarcode[candidate]; ok {
			entry = e
			break
		}
	}

	if entry == nil {
		return s.setFeedback(false, "no item found for %q", identifier)
	}
	if entry.Complete() {
		return s.setFeedback(false, "%s is already fully picked", entry.Name)
	}

	entry.Fulfilled++
	s.lastScan = identifier
	return s.setFeedback(true, "%s (%d/%d)", entry.Name, entry.Fulfilled, entry.Required)
}

// Adjust moves an entry's fulfilled count by delta, clamped to
// [0, entry.Required]. Used to correct scan mistakes or mark picks without
// scanning.
func (s *Session) Adjust(entry *PickListEntry, delta int) {
	entry.Fulfilled += delta
	if entry.Fulfilled < 0 {
		entry.Fulfilled = 0
	}
	if entry.Fulfilled > entry.Required {
		entry.Fulfilled = entry.Required
	}
}

// ToggleComplete is the all-or-nothing override: a complete entry resets to
// zero, anything else jumps to fully picked.
func (s *Session) ToggleComplete(entry *PickListEntry) {
	if entry.Complete() {
		entry.Fulfilled = 0
	} else {
		entry.Fulfilled = entry.Required
	}
}

// OrderReady reports whether every entry the order contributes to has been
// fully picked. The check compares the shared aggregate fulfilled count, not a
// per-order share: picking enough units for one order can flag another order
// on the same product as ready. Kept deliberately; see DESIGN.md.
func (s *Session) OrderReady(orderID int) bool {
	contributes := false
	for _, e := range s.entries {
		for _, c := range e.Orders {
			if c.OrderID != orderID {
				continue
			}
			contributes = true
			if !e.Complete() {
				return false
			}
		}
	}
	return contributes
}

// ReadyOrders returns the ids of all orders whose entries are fully picked,
// in pick-list order without duplicates.
func (s *Session) ReadyOrders() []int {
	seen := make(map[int]bool)
	var ready []int
	for _, e := range s.entries {
		for _, c := range e.Orders {
			if seen[c.OrderID] {
				continue
			}
			seen[c.OrderID] = true
			if s.OrderReady(c.OrderID) {
				ready = append(ready, c.OrderID)
			}
		}
	}
	return ready
}
