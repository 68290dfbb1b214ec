package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sarchlab/smmu/regs"
	"github.com/sarchlab/smmu/smmu"
)

// Monitor turns a running smmu.SMMU into an HTTP server that reports its
// statistics and register state and drains its event queue.
type Monitor struct {
	core       *smmu.SMMU
	registers  *regs.File
	portNumber int
}

// NewMonitor returns a Monitor watching core. registers may be nil if the
// deployment has no register file to expose.
func NewMonitor(core *smmu.SMMU, registers *regs.File) *Monitor {
	return &Monitor{core: core, registers: registers}
}

// WithPortNumber sets the port the monitor listens on. A value below 1000
// is rejected in favor of an OS-assigned port, the way a well-behaved
// server refuses to squat on a privileged port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitor; "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// StartServer starts the HTTP server in the background and returns once
// it is listening.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/events", m.drainEvents)
	r.HandleFunc("/api/register/{offset}", m.register)
	r.HandleFunc("/api/enabled", m.enabled)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(
		os.Stderr,
		"Monitoring SMMU with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.core.GetStatistics())
}

func (m *Monitor) drainEvents(w http.ResponseWriter, _ *http.Request) {
	var events []smmu.Event
	for m.core.HasEvents() {
		ev, ok := m.core.PopEvent()
		if !ok {
			break
		}
		events = append(events, ev)
	}

	writeJSON(w, events)
}

func (m *Monitor) enabled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]bool{"enabled": m.core.IsEnabled()})
}

func (m *Monitor) register(w http.ResponseWriter, r *http.Request) {
	if m.registers == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	offsetStr := mux.Vars(r)["offset"]
	offset, err := strconv.ParseUint(offsetStr, 0, 32)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	value := m.registers.Read32(regs.Offset(offset))
	writeJSON(w, map[string]uint32{"value": value})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	err := enc.Encode(v)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
