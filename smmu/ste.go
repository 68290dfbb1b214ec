package smmu

// StreamTableEntry is the per-StreamID configuration the SMMU consults to
// decide how (and whether) to translate a device's transactions.
type StreamTableEntry struct {
	Valid                  bool
	S1Enabled              bool
	S2Enabled              bool
	S1ContextPtr           PAddr
	S2TranslationTableBase PAddr
	VMID                   VMID
	S1Format               uint8
	S2Granule              uint8
}

// ContextDescriptor is the per-(StreamID, ASID) configuration used for
// stage-1 translation.
type ContextDescriptor struct {
	Valid               bool
	TranslationTableBase PAddr
	ASID                ASID
	TranslationGranule  uint8
	IPS                 uint8
	TG                  uint8
	SH                  uint8
	ORGN                uint8
	IRGN                uint8
}

// StreamTable maps StreamID to StreamTableEntry. It is lookup-only: writes
// replace, absent keys read back a default invalid entry.
type StreamTable struct {
	entries map[StreamID]StreamTableEntry
}

// NewStreamTable returns an empty StreamTable.
func NewStreamTable() *StreamTable {
	return &StreamTable{entries: make(map[StreamID]StreamTableEntry)}
}

// Configure writes (or replaces) the entry for sid.
func (t *StreamTable) Configure(sid StreamID, ste StreamTableEntry) {
	t.entries[sid] = ste
}

// Get returns the entry for sid, or a default invalid entry if absent.
func (t *StreamTable) Get(sid StreamID) StreamTableEntry {
	return t.entries[sid]
}

// contextKey packs (StreamID, ASID) into a single map key. ASID is 16-bit,
// so this is injective.
type contextKey uint64

func makeContextKey(sid StreamID, asid ASID) contextKey {
	return contextKey(uint64(sid)<<16 | uint64(asid))
}

// ContextTable maps (StreamID, ASID) to ContextDescriptor. Like
// StreamTable, it is lookup-only.
type ContextTable struct {
	entries map[contextKey]ContextDescriptor
}

// NewContextTable returns an empty ContextTable.
func NewContextTable() *ContextTable {
	return &ContextTable{entries: make(map[contextKey]ContextDescriptor)}
}

// Configure writes (or replaces) the descriptor for (sid, asid).
func (t *ContextTable) Configure(sid StreamID, asid ASID, cd ContextDescriptor) {
	t.entries[makeContextKey(sid, asid)] = cd
}

// Get returns the descriptor for (sid, asid), or a default invalid
// descriptor if absent.
func (t *ContextTable) Get(sid StreamID, asid ASID) ContextDescriptor {
	return t.entries[makeContextKey(sid, asid)]
}
