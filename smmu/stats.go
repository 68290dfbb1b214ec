package smmu

// Statistics are the read-only counters spec.md §6 exposes. All counters
// are non-decreasing across the lifetime of an instance except across a
// ResetStatistics call.
type Statistics struct {
	TotalTranslations uint64
	TLBHits           uint64
	TLBMisses         uint64
	PageTableWalks    uint64
	TranslationFaults uint64
	PermissionFaults  uint64
	CommandsProcessed uint64
	EventsGenerated   uint64
}
