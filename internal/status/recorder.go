package status

import (
	"sync"

	"github.com/cameronsjo/racoon/internal/manifest"
)

// Kind identifies a notification.
type Kind string

const (
	KindManifestParsingStart Kind = "manifest_parsing_start"
	KindManifestParsingEnd   Kind = "manifest_parsing_end"
	KindFileStart            Kind = "file_start"
	KindFileEnd              Kind = "file_end"
	KindVerifyStart          Kind = "verify_start"
	KindVerifyEnd            Kind = "verify_end"
)

// Event is one recorded notification. Fields not carried by Kind are zero.
type Event struct {
	Kind    Kind
	Name    string
	Src     string
	Dst     string
	Path    string
	Persist bool
	Failed  bool
}

// Summary totals a run.
type Summary struct {
	Manifests          int
	Files              int
	FilesFailed        int
	Loads              int
	LoadsFailed        int
	Verifications      int
	VerificationFailed int
}

// OK reports whether nothing failed.
func (s Summary) OK() bool {
	return s.FilesFailed == 0 && s.LoadsFailed == 0 && s.VerificationFailed == 0
}

// Recorder keeps every notification in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ manifest.Observer = (*Recorder)(nil)

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Summary totals the recorded notifications.
func (r *Recorder) Summary() Summary {
	var s Summary
	for _, e := range r.Events() {
		switch e.Kind {
		case KindManifestParsingStart:
			s.Manifests++
		case KindFileEnd:
			if e.Persist {
				s.Files++
				if e.Failed {
					s.FilesFailed++
				}
				continue
			}
			s.Loads++
			if e.Failed {
				s.LoadsFailed++
			}
		case KindVerifyEnd:
			s.Verifications++
			if e.Failed {
				s.VerificationFailed++
			}
		}
	}
	return s
}

func (r *Recorder) ManifestParsingStart(name string) {
	r.add(Event{Kind: KindManifestParsingStart, Name: name})
}

func (r *Recorder) ManifestParsingEnd(name string) {
	r.add(Event{Kind: KindManifestParsingEnd, Name: name})
}

func (r *Recorder) FileStart(src, dst string, persist bool) {
	r.add(Event{Kind: KindFileStart, Src: src, Dst: dst, Persist: persist})
}

func (r *Recorder) FileEnd(src, dst string, persist, failed bool) {
	r.add(Event{Kind: KindFileEnd, Src: src, Dst: dst, Persist: persist, Failed: failed})
}

func (r *Recorder) VerifyStart(path string) {
	r.add(Event{Kind: KindVerifyStart, Path: path})
}

func (r *Recorder) VerifyEnd(path string, failed bool) {
	r.add(Event{Kind: KindVerifyEnd, Path: path, Failed: failed})
}
