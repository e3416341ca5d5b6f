package ir

// SourceLoc is a (line, column) position in the original GLSL source.
type SourceLoc struct {
	Line   int
	Column int
}

// SourceLocID is an opaque 32-bit token attached to an IR instruction; it
// is resolved back to a SourceLoc through a SourceLocManager. Zero is the
// reserved "no location" value.
type SourceLocID uint32

// SourceLocManager mints SourceLocIDs and maps them back to source
// positions, so an emulator trap can be symbolicated to the GLSL line and
// column that produced the faulting instruction (spec.md §3, §8 scenario 5).
type SourceLocManager struct {
	locs []SourceLoc // index 0 unused (reserved for "no location")
}

// NewSourceLocManager returns an empty manager whose next minted ID is 1.
func NewSourceLocManager() *SourceLocManager {
	return &SourceLocManager{locs: make([]SourceLoc, 1)}
}

// Intern returns the SourceLocID for (line, column), minting a new one.
// Unlike a deduplicating registry, each call mints a fresh ID: two
// instructions at the same source position are allowed to carry distinct
// IDs because they are different instructions, not different locations to
// dedup.
func (m *SourceLocManager) Intern(loc SourceLoc) SourceLocID {
	id := SourceLocID(len(m.locs))
	m.locs = append(m.locs, loc)
	return id
}

// Lookup resolves id back to a source position. ok is false for the
// reserved zero ID or an ID out of range.
func (m *SourceLocManager) Lookup(id SourceLocID) (loc SourceLoc, ok bool) {
	if id == 0 || int(id) >= len(m.locs) {
		return SourceLoc{}, false
	}
	return m.locs[id], true
}

// NextID returns the ID that would be minted by the next Intern call.
func (m *SourceLocManager) NextID() SourceLocID { return SourceLocID(len(m.locs)) }

// Merge absorbs every mapping present in other that m doesn't already
// carry at the same ID. Both managers are assumed to have minted IDs from
// the same counter space (e.g. a base executable and an object linked
// against it sharing one compilation), so IDs line up positionally and no
// remapping is needed. Per spec.md §8, the result's NextID is the
// pre-merge maximum of the two managers' NextID.
func (m *SourceLocManager) Merge(other *SourceLocManager) {
	if len(other.locs) > len(m.locs) {
		grown := make([]SourceLoc, len(other.locs))
		copy(grown, m.locs)
		m.locs = grown
	}
	for i := 1; i < len(other.locs); i++ {
		if m.locs[i] == (SourceLoc{}) && other.locs[i] != (SourceLoc{}) {
			m.locs[i] = other.locs[i]
		}
	}
}
