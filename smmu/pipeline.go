package smmu

// translate runs the full miss path: STE lookup, stage-1 walk, optional
// stage-2 walk, TLB insert. It assumes the TLB has already been probed and
// missed — SMMU.Translate owns the hit path and the enabled/disabled gate.
func (s *SMMU) translate(va VAddr, sid StreamID, asid ASID, vmid VMID) TranslationResult {
	ste := s.streamTable.Get(sid)
	if !ste.Valid {
		s.fault(FaultTranslation, sid, asid, vmid, va, "Invalid stream table entry")
		return TranslationResult{FaultReason: "Invalid stream table entry"}
	}

	var (
		result TranslationResult
		stage  Stage
	)

	switch {
	case ste.S1Enabled:
		cd := s.contextTable.Get(sid, asid)
		if !cd.Valid {
			s.fault(FaultTranslation, sid, cd.ASID, vmid, va,
				"Invalid context descriptor")
			return TranslationResult{FaultReason: "Invalid context descriptor"}
		}

		result = s.walkStage1(va, sid, asid, vmid, cd)
		if !result.Success {
			return result
		}
		stage = Stage1

		if ste.S2Enabled {
			ipa := result.PhysAddr
			result = s.walkStage2(ipa, sid, asid, vmid, ste)
			if !result.Success {
				return result
			}
			stage = Stage2
		}
	case ste.S2Enabled:
		result = s.walkStage2(va, sid, asid, vmid, ste)
		if !result.Success {
			return result
		}
		stage = Stage2
	default:
		s.fault(FaultTranslation, sid, asid, vmid, va,
			"No translation stages enabled")
		return TranslationResult{FaultReason: "No translation stages enabled"}
	}

	s.tlb.Insert(TLBEntry{
		VABase:     va,
		PA:         result.PhysAddr - result.PageSize.Offset(va),
		StreamID:   sid,
		ASID:       asid,
		VMID:       vmid,
		PageSize:   result.PageSize,
		MemoryType: result.MemoryType,
		Permission: result.Permission,
		Cacheable:  result.Cacheable,
		Shareable:  result.Shareable,
		Stage:      stage,
	})

	return result
}

func (s *SMMU) walkStage1(
	va VAddr,
	sid StreamID,
	asid ASID,
	vmid VMID,
	cd ContextDescriptor,
) TranslationResult {
	s.stats.PageTableWalks++

	result := s.walker.Translate(
		va, cd.TranslationTableBase, cd.TranslationGranule, cd.IPS, Stage1)
	if !result.Success {
		s.fault(FaultTranslation, sid, asid, vmid, va, result.FaultReason)
	}

	return result
}

// stage2IPSBits is the intermediate-physical-address size assumed for
// stage-2 walks, per spec.md §4.4 step 4.
const stage2IPSBits = 48

func (s *SMMU) walkStage2(
	ipa PAddr,
	sid StreamID,
	asid ASID,
	vmid VMID,
	ste StreamTableEntry,
) TranslationResult {
	s.stats.PageTableWalks++

	result := s.walker.Translate(
		ipa, ste.S2TranslationTableBase, ste.S2Granule, stage2IPSBits, Stage2)
	if !result.Success {
		s.fault(FaultTranslation, sid, asid, vmid, ipa, result.FaultReason)
	}

	return result
}

func (s *SMMU) fault(
	faultType FaultType,
	sid StreamID,
	asid ASID,
	vmid VMID,
	va VAddr,
	description string,
) {
	s.stats.TranslationFaults++

	if s.eventQueue.Generate(faultType, sid, asid, vmid, va, description) {
		s.stats.EventsGenerated++
	}
}
