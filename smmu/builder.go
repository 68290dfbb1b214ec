package smmu

// Builder assembles an *SMMU fluently, the way the rest of this module's
// collaborators are built: a chain of With* calls terminated by Build.
type Builder struct {
	tlbCapacity          int
	commandQueueCapacity int
	eventQueueCapacity   int
	memRead              MemReadFunc
}

// MakeBuilder returns a Builder with every size at its package default and
// no memory reader configured; WithMemReader must be called before Build.
func MakeBuilder() Builder {
	return Builder{
		tlbCapacity:          DefaultTLBCapacity,
		commandQueueCapacity: DefaultCommandQueueCapacity,
		eventQueueCapacity:   DefaultEventQueueCapacity,
	}
}

// WithTLBCapacity sets the number of entries the TLB holds.
func (b Builder) WithTLBCapacity(capacity int) Builder {
	b.tlbCapacity = capacity
	return b
}

// WithCommandQueueCapacity sets the depth of the command queue.
func (b Builder) WithCommandQueueCapacity(capacity int) Builder {
	b.commandQueueCapacity = capacity
	return b
}

// WithEventQueueCapacity sets the depth of the event queue.
func (b Builder) WithEventQueueCapacity(capacity int) Builder {
	b.eventQueueCapacity = capacity
	return b
}

// WithMemReader sets the function the page-table walker uses to fetch
// descriptors. It must be set before Build; Build panics otherwise.
func (b Builder) WithMemReader(read MemReadFunc) Builder {
	b.memRead = read
	return b
}

// Build constructs the configured *SMMU, disabled, with empty tables and
// queues.
func (b Builder) Build() *SMMU {
	if b.memRead == nil {
		panic("smmu: Builder.Build called without WithMemReader")
	}

	return &SMMU{
		walker:       NewWalker(b.memRead),
		tlb:          NewTLB(b.tlbCapacity),
		streamTable:  NewStreamTable(),
		contextTable: NewContextTable(),
		commandQueue: NewCommandQueue(b.commandQueueCapacity),
		eventQueue:   NewEventQueue(b.eventQueueCapacity),
	}
}
