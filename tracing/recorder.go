package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/smmu/smmu"
)

// Recorder writes smmu.Event and smmu.Command records to a SQLite
// database, batching inserts and flushing on demand or at process exit.
type Recorder struct {
	*sql.DB
	eventStmt   *sql.Stmt
	commandStmt *sql.Stmt

	dbName    string
	batchSize int

	events   []smmu.Event
	commands []smmu.Command
}

// NewRecorder returns a Recorder that will create path+".sqlite3" on
// Init. If path is empty, Init generates a unique name.
func NewRecorder(path string) *Recorder {
	r := &Recorder{
		dbName:    path,
		batchSize: 1000,
	}

	atexit.Register(func() { r.Flush() })

	return r
}

// Init creates the database file and its tables.
func (r *Recorder) Init() {
	r.createDatabase()
	r.createTables()
	r.prepareStatements()
}

func (r *Recorder) createDatabase() {
	if r.dbName == "" {
		r.dbName = "smmu_trace_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

func (r *Recorder) createTables() {
	r.mustExecute(`
		CREATE TABLE event
		(
			fault_type  varchar(32) not null,
			stream_id   integer     not null,
			asid        integer     not null,
			vmid        integer     not null,
			va          integer     not null,
			description varchar(200),
			timestamp   integer     not null
		);
	`)

	r.mustExecute(`
		CREATE TABLE command
		(
			cmd_type  integer not null,
			stream_id integer not null,
			asid      integer not null,
			vmid      integer not null,
			va        integer not null
		);
	`)
}

func (r *Recorder) prepareStatements() {
	stmt, err := r.Prepare(
		`INSERT INTO event VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}
	r.eventStmt = stmt

	stmt, err = r.Prepare(
		`INSERT INTO command VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}
	r.commandStmt = stmt
}

// RecordEvent buffers ev, flushing immediately once the batch fills.
func (r *Recorder) RecordEvent(ev smmu.Event) {
	r.events = append(r.events, ev)
	if len(r.events) >= r.batchSize {
		r.Flush()
	}
}

// RecordCommand buffers cmd, flushing immediately once the batch fills.
func (r *Recorder) RecordCommand(cmd smmu.Command) {
	r.commands = append(r.commands, cmd)
	if len(r.commands) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes every buffered event and command to the database.
func (r *Recorder) Flush() {
	if len(r.events) == 0 && len(r.commands) == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")

	for _, ev := range r.events {
		_, err := r.eventStmt.Exec(
			ev.FaultType.String(), ev.StreamID, ev.ASID, ev.VMID, ev.VA,
			ev.Description, ev.Timestamp)
		if err != nil {
			panic(err)
		}
	}

	for _, cmd := range r.commands {
		_, err := r.commandStmt.Exec(
			int(cmd.Type), cmd.StreamID, cmd.ASID, cmd.VMID, cmd.VA)
		if err != nil {
			panic(err)
		}
	}

	r.mustExecute("COMMIT TRANSACTION")

	r.events = nil
	r.commands = nil
}

func (r *Recorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		panic(err)
	}

	return res
}
