package predict

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/assert"
	"github.com/oomph-ac/pmove/utils"
)

// Record is the origin the client predicted after applying the command with
// the given sequence.
type Record struct {
	Sequence uint32
	Origin   mgl32.Vec3
	Checksum uint64
}

// History keeps the most recent records ordered by sequence, dropping the
// oldest once full.
type History struct {
	records *utils.CircularQueue[Record]
}

func NewHistory(capacity int) *History {
	assert.IsTrue(capacity > 0, "predict: history capacity must be positive, got %d", capacity)
	return &History{records: utils.NewCircularQueue[Record](capacity)}
}

// Put stores rec. A record for a sequence already held is replaced, a newer one
// is appended, and one older than everything held is ignored.
func (h *History) Put(rec Record) {
	if latest, ok := h.records.Back(); ok && rec.Sequence <= latest.Sequence {
		if i, found := h.index(rec.Sequence); found {
			h.records.Update(i, rec)
		}
		return
	}
	_ = h.records.Append(rec)
}

// Get returns the record for seq.
func (h *History) Get(seq uint32) (Record, bool) {
	if i, ok := h.index(seq); ok {
		return h.records.At(i)
	}
	return Record{}, false
}

func (h *History) index(seq uint32) (int, bool) {
	// Search backwards from most recent
	for i := h.records.Len() - 1; i >= 0; i-- {
		rec, _ := h.records.At(i)
		if rec.Sequence == seq {
			return i, true
		}
		if rec.Sequence < seq {
			break
		}
	}
	return 0, false
}

// Latest returns the most recently added record.
func (h *History) Latest() (Record, bool) {
	return h.records.Back()
}

func (h *History) Len() int {
	return h.records.Len()
}

func (h *History) Clear() {
	h.records.Clear()
}
