package smmu

import "container/list"

// DefaultTLBCapacity is the number of entries a TLB holds absent an
// explicit capacity from the Builder.
const DefaultTLBCapacity = 128

// candidateSizes is the page-size probe order used by Lookup and
// InvalidateVA: largest to smallest, since a request address may alias a
// block mapping at any of these granules.
var candidateSizes = []PageSize{Size1GiB, Size2MiB, Size64KiB, Size4KiB}

// TLBEntry is a cached translation. The lookup key is
// (VABase, StreamID, ASID, VMID); the remaining fields are the cached
// value.
type TLBEntry struct {
	VABase     VAddr
	PA         PAddr
	StreamID   StreamID
	ASID       ASID
	VMID       VMID
	PageSize   PageSize
	MemoryType MemoryType
	Permission Permission
	Cacheable  bool
	Shareable  bool
	Stage      Stage
	Timestamp  uint64
}

type tlbKey struct {
	vaBase   VAddr
	streamID StreamID
	asid     ASID
	vmid     VMID
}

// TLB is a bounded associative cache keyed on (VABase, StreamID, ASID,
// VMID), with LRU eviction. The keyed store and the recency list are kept
// in lockstep: they always share the same key set.
type TLB struct {
	capacity int
	store    map[tlbKey]*list.Element
	recency  *list.List // front = most recently used, back = eviction candidate
	counter  uint64

	hits   uint64
	misses uint64
}

// NewTLB returns an empty TLB with the given capacity.
func NewTLB(capacity int) *TLB {
	if capacity <= 0 {
		capacity = DefaultTLBCapacity
	}

	return &TLB{
		capacity: capacity,
		store:    make(map[tlbKey]*list.Element),
		recency:  list.New(),
	}
}

func keyFor(vaBase VAddr, sid StreamID, asid ASID, vmid VMID) tlbKey {
	return tlbKey{vaBase: vaBase, streamID: sid, asid: asid, vmid: vmid}
}

// Lookup probes the four candidate page sizes from largest to smallest. A
// match is only accepted if the stored entry's own PageSize equals the
// candidate being probed — this closes the alias window spec.md §4.2 and
// §9 flag, where a 4KiB-aligned access could otherwise spuriously hit an
// unrelated entry that happens to share a 1GiB-aligned VABase.
func (t *TLB) Lookup(va VAddr, sid StreamID, asid ASID, vmid VMID) (TLBEntry, bool) {
	for _, size := range candidateSizes {
		vaBase := size.AlignDown(va)
		key := keyFor(vaBase, sid, asid, vmid)

		elem, ok := t.store[key]
		if !ok {
			continue
		}

		entry := elem.Value.(TLBEntry)
		if entry.PageSize != size {
			continue
		}

		t.recency.MoveToFront(elem)
		t.hits++

		return entry, true
	}

	t.misses++
	return TLBEntry{}, false
}

// Insert caches entry, evicting the least-recently-used entry first if the
// TLB is at capacity. Re-inserting an existing key updates it and refreshes
// its recency without changing the cache's size.
func (t *TLB) Insert(entry TLBEntry) {
	vaBase := entry.PageSize.AlignDown(entry.VABase)
	entry.VABase = vaBase
	key := keyFor(vaBase, entry.StreamID, entry.ASID, entry.VMID)

	if elem, ok := t.store[key]; ok {
		t.recency.Remove(elem)
		delete(t.store, key)
	} else if len(t.store) >= t.capacity {
		t.evictOldest()
	}

	t.counter++
	entry.Timestamp = t.counter

	elem := t.recency.PushFront(entry)
	t.store[key] = elem
}

func (t *TLB) evictOldest() {
	oldest := t.recency.Back()
	if oldest == nil {
		return
	}

	entry := oldest.Value.(TLBEntry)
	key := keyFor(entry.VABase, entry.StreamID, entry.ASID, entry.VMID)

	t.recency.Remove(oldest)
	delete(t.store, key)
}

// InvalidateAll clears the entire TLB.
func (t *TLB) InvalidateAll() {
	t.store = make(map[tlbKey]*list.Element)
	t.recency.Init()
}

// InvalidateASID removes every entry tagged with asid.
func (t *TLB) InvalidateASID(asid ASID) {
	t.invalidateWhere(func(e TLBEntry) bool { return e.ASID == asid })
}

// InvalidateVMID removes every entry tagged with vmid.
func (t *TLB) InvalidateVMID(vmid VMID) {
	t.invalidateWhere(func(e TLBEntry) bool { return e.VMID == vmid })
}

// InvalidateStream removes every entry tagged with sid.
func (t *TLB) InvalidateStream(sid StreamID) {
	t.invalidateWhere(func(e TLBEntry) bool { return e.StreamID == sid })
}

// InvalidateVA removes every entry whose ASID matches and whose own
// page-aligned VA equals va's alignment at one of the candidate page
// sizes.
func (t *TLB) InvalidateVA(va VAddr, asid ASID) {
	vaBases := make(map[PageSize]VAddr, len(candidateSizes))
	for _, size := range candidateSizes {
		vaBases[size] = size.AlignDown(va)
	}

	t.invalidateWhere(func(e TLBEntry) bool {
		if e.ASID != asid {
			return false
		}

		return e.VABase == vaBases[e.PageSize]
	})
}

func (t *TLB) invalidateWhere(match func(TLBEntry) bool) {
	for elem := t.recency.Front(); elem != nil; {
		next := elem.Next()

		entry := elem.Value.(TLBEntry)
		if match(entry) {
			key := keyFor(entry.VABase, entry.StreamID, entry.ASID, entry.VMID)
			delete(t.store, key)
			t.recency.Remove(elem)
		}

		elem = next
	}
}

// Len returns the number of cached entries.
func (t *TLB) Len() int {
	return len(t.store)
}

// Hits and Misses report the lookup counters since construction or the
// last ResetCounters call. The SMMU's own Statistics mirror these; these
// exist for the TLB's own invariant tests (spec.md §8 law 2).
func (t *TLB) Hits() uint64   { return t.hits }
func (t *TLB) Misses() uint64 { return t.misses }

// ResetCounters zeroes the hit/miss counters without affecting cached
// entries.
func (t *TLB) ResetCounters() {
	t.hits, t.misses = 0, 0
}
