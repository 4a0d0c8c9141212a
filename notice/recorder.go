package notice

import (
	"slices"
	"sync"
)

type Trimmer interface {
	Trim(notices []Notice) []Notice
}

// KeepLastN keeps the newest N notices. When N <= 0 nothing is dropped.
type KeepLastN struct {
	N int
}

func (t KeepLastN) Trim(notices []Notice) []Notice {
	if t.N <= 0 || len(notices) <= t.N {
		return notices
	}
	return slices.Clone(notices[len(notices)-t.N:])
}

// Recorder keeps the notices it receives so a surface can render them later.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	unread  int
	trimmer Trimmer
}

func NewRecorder(trimmer Trimmer) *Recorder {
	return &Recorder{trimmer: trimmer}
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	r.unread++
	if r.trimmer != nil {
		r.notices = r.trimmer.Trim(r.notices)
	}
	r.unread = min(r.unread, len(r.notices))
}

// Notices returns every retained notice, oldest first.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notices)
}

// Unread returns the notices recorded since the previous call and marks them read.
func (r *Recorder) Unread() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unread == 0 {
		return nil
	}
	out := slices.Clone(r.notices[len(r.notices)-r.unread:])
	r.unread = 0
	return out
}

func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
