package regs

// Offset identifies a 32-bit register by its byte offset into the file.
type Offset uint32

// Register offsets, compatible with the SMMUv3 subset this model covers.
const (
	IDR0 Offset = 0x0000 // identification: supported features (read-only)
	IDR1 Offset = 0x0004 // identification: queue sizes etc. (read-only)
	IDR5 Offset = 0x0014 // identification: output address size (read-only)

	CR0    Offset = 0x0020 // control: top-level enable bits
	CR0ACK Offset = 0x0024 // CR0 acknowledge, mirrored on every CR0 write
	CR1    Offset = 0x0028 // control: queue control
	CR2    Offset = 0x002C // control: miscellaneous

	STATUSR Offset = 0x0040 // status
	GBPA    Offset = 0x0044 // global bypass attributes

	IRQCtrl    Offset = 0x0050 // interrupt control
	IRQCtrlAck Offset = 0x0054 // IRQ_CTRL acknowledge, mirrored on write

	STRTABBase    Offset = 0x0080 // stream table base (64-bit)
	STRTABBaseCfg Offset = 0x0088 // stream table config

	CMDQBase Offset = 0x0090 // command queue base (64-bit)
	CMDQProd Offset = 0x0098 // command queue producer index
	CMDQCons Offset = 0x009C // command queue consumer index

	EVENTQBase Offset = 0x00A0 // event queue base (64-bit)
	EVENTQProd Offset = 0x00A8 // event queue producer index
	EVENTQCons Offset = 0x00AC // event queue consumer index
)

// CR0 bit assignments.
const (
	CR0SMMUEN  uint32 = 1 << 0 // SMMU enable
	CR0EVENTQEN uint32 = 1 << 1 // event queue enable
	CR0CMDQEN  uint32 = 1 << 2 // command queue enable
	CR0ATSCHK  uint32 = 1 << 4 // ATS check enable
)

// IDR0 bit assignments, matching spec.md §6's "S1P|S2P|TTF_AARCH64|COHACC|
// ASID16|VMID16" fixed feature report.
const (
	IDR0S1P        uint32 = 1 << 1
	IDR0S2P        uint32 = 1 << 2
	IDR0TTFAArch64 uint32 = 2 << 4
	IDR0COHACC     uint32 = 1 << 6
	IDR0ASID16     uint32 = 1 << 12
	IDR0VMID16     uint32 = 1 << 18
)

// readOnlyOffsets are never written; writes to them are ignored.
var readOnlyOffsets = map[Offset]bool{
	IDR0: true,
	IDR1: true,
	IDR5: true,
}
