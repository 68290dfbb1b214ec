package main

import (
	"fmt"

	"github.com/sarchlab/smmu/memio"
	"github.com/sarchlab/smmu/smmu"
	"github.com/sarchlab/smmu/tracing"
)

// traceRunner holds the replay state a trace file accumulates as it runs:
// one page table per ASID it has seen, and the StreamID->ASID mapping the
// most recent STREAM command for each stream established.
type traceRunner struct {
	mem      *memio.Model
	core     *smmu.SMMU
	recorder *tracing.Recorder

	asidTables map[uint32]*pageTableManager
	streamASID map[uint32]uint32
}

func (r *traceRunner) run(line traceLine) error {
	switch line.kind {
	case "STREAM":
		return r.runStream(line)
	case "MAP":
		return r.runMap(line)
	case "ACCESS":
		return r.runAccess(line)
	default:
		return fmt.Errorf("unknown trace command %q", line.kind)
	}
}

func (r *traceRunner) tableFor(asid uint32) *pageTableManager {
	table, ok := r.asidTables[asid]
	if !ok {
		table = newPageTableManager(r.mem)
		r.asidTables[asid] = table
	}

	return table
}

func (r *traceRunner) runStream(line traceLine) error {
	if err := requireArgs(line, 2); err != nil {
		return err
	}

	streamID, err := parseHexOrDec(line.args[0])
	if err != nil {
		return err
	}

	asid, err := parseHexOrDec(line.args[1])
	if err != nil {
		return err
	}

	r.streamASID[uint32(streamID)] = uint32(asid)

	r.core.ConfigureStreamTableEntry(smmu.StreamID(streamID), smmu.StreamTableEntry{
		Valid:     true,
		S1Enabled: true,
	})

	table := r.tableFor(uint32(asid))
	r.core.ConfigureContextDescriptor(
		smmu.StreamID(streamID), smmu.ASID(asid), smmu.ContextDescriptor{
			Valid:                true,
			TranslationTableBase: table.rootPhysAddr(),
			ASID:                 smmu.ASID(asid),
			TranslationGranule:   12,
			IPS:                  48,
		})

	fmt.Printf("[CONFIG] Stream %d -> ASID %d (Table: 0x%x)\n",
		streamID, asid, table.rootPhysAddr())

	return nil
}

func (r *traceRunner) runMap(line traceLine) error {
	if err := requireArgs(line, 3); err != nil {
		return err
	}

	asid, err := parseHexOrDec(line.args[0])
	if err != nil {
		return err
	}

	va, err := parseHexOrDec(line.args[1])
	if err != nil {
		return err
	}

	pa, err := parseHexOrDec(line.args[2])
	if err != nil {
		return err
	}

	ap := permReadWrite
	if len(line.args) > 3 && line.args[3] == "RO" {
		ap = permReadOnly
	}

	r.tableFor(uint32(asid)).mapPage(va, pa, ap)

	fmt.Printf("[MAP] ASID %d: VA 0x%x -> PA 0x%x\n", asid, va, pa)

	return nil
}

func (r *traceRunner) runAccess(line traceLine) error {
	if err := requireArgs(line, 2); err != nil {
		return err
	}

	streamID, err := parseHexOrDec(line.args[0])
	if err != nil {
		return err
	}

	va, err := parseHexOrDec(line.args[1])
	if err != nil {
		return err
	}

	asid := r.streamASID[uint32(streamID)]

	result := r.core.Translate(va, smmu.StreamID(streamID), smmu.ASID(asid), 0)

	if result.Success {
		fmt.Printf("[ACCESS] Stream %d (ASID %d) VA 0x%x -> PA 0x%x\n",
			streamID, asid, va, result.PhysAddr)
	} else {
		fmt.Printf("[ACCESS] Stream %d (ASID %d) VA 0x%x -> FAULT (%s)\n",
			streamID, asid, va, result.FaultReason)
	}

	if r.recorder != nil {
		for r.core.HasEvents() {
			ev, ok := r.core.PopEvent()
			if !ok {
				break
			}
			r.recorder.RecordEvent(ev)
		}
	}

	return nil
}
