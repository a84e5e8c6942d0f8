// Package memory stores the current resume in process memory.
package memory

import (
	"context"
	"sync/atomic"

	"github.com/jobautofill/backend/internal/domain"
)

// ResumeRepo is a single-slot resume store. The slot holds an immutable
// snapshot behind an atomic pointer, so readers never observe a half-written
// record while an upload or extraction replaces it.
type ResumeRepo struct {
	slot atomic.Pointer[domain.ResumeRecord]
}

// New constructs an empty in-memory resume store.
func New() *ResumeRepo {
	return &ResumeRepo{}
}

// Save replaces the stored resume with rec.
func (r *ResumeRepo) Save(_ context.Context, rec domain.ResumeRecord) error {
	r.slot.Store(&rec)
	return nil
}

// Get returns the stored resume or domain.ErrNoResume.
func (r *ResumeRepo) Get(context.Context) (domain.ResumeRecord, error) {
	rec := r.slot.Load()
	if rec == nil {
		return domain.ResumeRecord{}, domain.ErrNoResume
	}
	return *rec, nil
}

// SetExtraction attaches the sanitized structured JSON to the stored resume.
// The swap is copy-on-write: a new snapshot replaces the slot.
func (r *ResumeRepo) SetExtraction(_ context.Context, extractedJSON string) error {
	for {
		old := r.slot.Load()
		if old == nil {
			return domain.ErrNoResume
		}
		next := *old
		next.ExtractedJSON = extractedJSON
		if r.slot.CompareAndSwap(old, &next) {
			return nil
		}
	}
}

// Clear removes the stored resume.
func (r *ResumeRepo) Clear(context.Context) error {
	r.slot.Store(nil)
	return nil
}
