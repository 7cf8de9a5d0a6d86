package service

import (
	"study-buddy/internal/domain"
	"sync"
	"time"
)

// DefaultSettleDelay lets the flip-back transition finish before the card changes.
const DefaultSettleDelay = 150 * time.Millisecond

// FlashcardView is what the viewer currently shows.
type FlashcardView struct {
	Card    domain.Flashcard
	Index   int
	Total   int
	Flipped bool
}

// FlashcardViewer navigates the cards of one open set. Next and Prev unflip the card
// immediately and move to the neighbouring card after the settle delay, wrapping at
// both ends.
type FlashcardViewer struct {
	delay time.Duration

	mu         sync.Mutex
	set        *domain.FlashcardSet
	index      int
	flipped    bool
	generation uint64
	inflight   sync.WaitGroup
}

// NewFlashcardViewer creates a viewer. A zero delay advances synchronously.
func NewFlashcardViewer(settleDelay time.Duration) *FlashcardViewer {
	if settleDelay < 0 {
		settleDelay = 0
	}
	return &FlashcardViewer{delay: settleDelay}
}

// Open shows the first card of set, front side up.
func (v *FlashcardViewer) Open(set domain.FlashcardSet) error {
	if len(set.Cards) == 0 {
		return domain.NewInvalidStateError("This flashcard set has no cards.")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	s := set
	s.Cards = append([]domain.Flashcard(nil), set.Cards...)
	v.set = &s
	v.index = 0
	v.flipped = false
	v.generation++
	return nil
}

// Close hides the viewer. Advances scheduled before Close are dropped.
func (v *FlashcardViewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.set = nil
	v.index = 0
	v.flipped = false
	v.generation++
}

func (v *FlashcardViewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.set != nil
}

// Set returns the open set.
func (v *FlashcardViewer) Set() (domain.FlashcardSet, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set == nil {
		return domain.FlashcardSet{}, false
	}
	return *v.set, true
}

// Flip turns the current card over.
func (v *FlashcardViewer) Flip() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set == nil {
		return
	}
	v.flipped = !v.flipped
}

func (v *FlashcardViewer) Next() { v.step(1) }

func (v *FlashcardViewer) Prev() { v.step(-1) }

func (v *FlashcardViewer) step(delta int) {
	v.mu.Lock()
	if v.set == nil {
		v.mu.Unlock()
		return
	}
	v.flipped = false
	gen := v.generation
	if v.delay == 0 {
		v.advanceLocked(gen, delta)
		v.mu.Unlock()
		return
	}
	v.inflight.Add(1)
	v.mu.Unlock()

	time.AfterFunc(v.delay, func() {
		defer v.inflight.Done()
		v.mu.Lock()
		defer v.mu.Unlock()
		v.advanceLocked(gen, delta)
	})
}

func (v *FlashcardViewer) advanceLocked(gen uint64, delta int) {
	if v.set == nil || gen != v.generation {
		return
	}
	n := len(v.set.Cards)
	v.index = ((v.index+delta)%n + n) % n
}

// Settle blocks until every scheduled advance has run.
func (v *FlashcardViewer) Settle() {
	v.inflight.Wait()
}

// Current returns the card on display.
func (v *FlashcardViewer) Current() (FlashcardView, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set == nil {
		return FlashcardView{}, false
	}
	return FlashcardView{
		Card:    v.set.Cards[v.index],
		Index:   v.index,
		Total:   len(v.set.Cards),
		Flipped: v.flipped,
	}, true
}
