package smmu

import "log"

// SMMU is the functional model's top-level facade: it owns the TLB,
// Stream/Context tables, command and event queues, and statistics, and
// coordinates them across a synchronous Translate call. Callers must
// externally serialize access to one instance; two instances are
// independent (spec.md §5).
type SMMU struct {
	enabled bool

	walker       *Walker
	tlb          *TLB
	streamTable  *StreamTable
	contextTable *ContextTable
	commandQueue *CommandQueue
	eventQueue   *EventQueue

	stats Statistics
}

// Enable turns translation on. Before Enable is called, every Translate
// call fails with "SMMU is disabled".
func (s *SMMU) Enable() { s.enabled = true }

// Disable turns translation off.
func (s *SMMU) Disable() { s.enabled = false }

// IsEnabled reports the current enable state.
func (s *SMMU) IsEnabled() bool { return s.enabled }

// ConfigureStreamTableEntry writes (or replaces) the STE for sid.
func (s *SMMU) ConfigureStreamTableEntry(sid StreamID, ste StreamTableEntry) {
	s.streamTable.Configure(sid, ste)
}

// ConfigureContextDescriptor writes (or replaces) the CD for (sid, asid).
func (s *SMMU) ConfigureContextDescriptor(sid StreamID, asid ASID, cd ContextDescriptor) {
	s.contextTable.Configure(sid, asid, cd)
}

// Translate runs the translation pipeline of spec.md §4.4: a TLB probe,
// and on miss a Stream Table / Context Descriptor lookup followed by one
// or two page-table walks, with the result cached back into the TLB.
func (s *SMMU) Translate(va VAddr, sid StreamID, asid ASID, vmid VMID) TranslationResult {
	s.stats.TotalTranslations++

	if !s.enabled {
		return TranslationResult{FaultReason: "SMMU is disabled"}
	}

	if entry, hit := s.tlb.Lookup(va, sid, asid, vmid); hit {
		s.stats.TLBHits++

		return TranslationResult{
			Success:    true,
			PhysAddr:   entry.PA + entry.PageSize.Offset(va),
			MemoryType: entry.MemoryType,
			Permission: entry.Permission,
			Cacheable:  entry.Cacheable,
			Shareable:  entry.Shareable,
			PageSize:   entry.PageSize,
		}
	}

	s.stats.TLBMisses++

	return s.translate(va, sid, asid, vmid)
}

// SubmitCommand enqueues cmd on the command queue, dropping it silently if
// the queue is full.
func (s *SMMU) SubmitCommand(cmd Command) {
	s.commandQueue.Submit(cmd)
}

// ProcessCommands drains the command queue, executing each command in
// submission order per the dispatch table in spec.md §4.5.
func (s *SMMU) ProcessCommands() {
	for _, cmd := range s.commandQueue.Drain() {
		s.processCommand(cmd)
		s.stats.CommandsProcessed++
	}
}

func (s *SMMU) processCommand(cmd Command) {
	switch cmd.Type {
	case CmdSync, CmdPrefetchConfig, CmdPrefetchAddr:
		// No-op; counted only.
	case CmdCfgiSTE:
		s.tlb.InvalidateStream(cmd.StreamID)
	case CmdCfgiCD:
		s.tlb.InvalidateASID(cmd.ASID)
	case CmdCfgiAll, CmdTLBINHAll:
		s.tlb.InvalidateAll()
	case CmdTLBINHASID:
		s.tlb.InvalidateASID(cmd.ASID)
	case CmdTLBINHVA:
		s.tlb.InvalidateVA(cmd.VA, cmd.ASID)
	case CmdTLBIS12VMAll:
		s.tlb.InvalidateVMID(cmd.VMID)
	default:
		log.Panicf("smmu: cannot process command of type %d", cmd.Type)
	}
}

// HasEvents reports whether any fault event is queued.
func (s *SMMU) HasEvents() bool {
	return s.eventQueue.HasEvents()
}

// PopEvent removes and returns the oldest queued event.
func (s *SMMU) PopEvent() (Event, bool) {
	return s.eventQueue.PopEvent()
}

// InvalidateAll invalidates every TLB entry, bypassing the command queue.
func (s *SMMU) InvalidateAll() { s.tlb.InvalidateAll() }

// InvalidateASID invalidates every TLB entry tagged with asid, bypassing
// the command queue.
func (s *SMMU) InvalidateASID(asid ASID) { s.tlb.InvalidateASID(asid) }

// InvalidateVMID invalidates every TLB entry tagged with vmid, bypassing
// the command queue.
func (s *SMMU) InvalidateVMID(vmid VMID) { s.tlb.InvalidateVMID(vmid) }

// InvalidateStream invalidates every TLB entry tagged with sid, bypassing
// the command queue.
func (s *SMMU) InvalidateStream(sid StreamID) { s.tlb.InvalidateStream(sid) }

// InvalidateVA invalidates every TLB entry for va under asid, bypassing
// the command queue.
func (s *SMMU) InvalidateVA(va VAddr, asid ASID) { s.tlb.InvalidateVA(va, asid) }

// GetStatistics returns a snapshot of the current counters.
func (s *SMMU) GetStatistics() Statistics {
	return s.stats
}

// ResetStatistics zeroes every counter.
func (s *SMMU) ResetStatistics() {
	s.stats = Statistics{}
}
