package record

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

// Step is one row of a recorded run: the state handed to the controller and
// what came back.
type Step struct {
	Step int

	Time                float64
	TimeStep            float64
	BladePitch          float64
	GeneratorSpeed      float64
	GeneratorTorque     float64
	GeneratorEfficiency float64
	RotorSpeed          float64
	WindSpeed           float64
	YawFromNorth        float64
	YawError            float64

	Torque         float64
	Pitch          float64
	NacelleYawRate float64

	Status  int32
	Message string
}

// NewStep flattens one exchange into a row.
func NewStep(n int, st avrswap.TurbineState, out avrswap.ControlOutput, status int32, msg string) Step {
	return Step{
		Step:                n,
		Time:                st.Time,
		TimeStep:            st.TimeStep,
		BladePitch:          st.BladePitch,
		GeneratorSpeed:      st.GeneratorSpeed,
		GeneratorTorque:     st.GeneratorTorque,
		GeneratorEfficiency: st.GeneratorEfficiency,
		RotorSpeed:          st.RotorSpeed,
		WindSpeed:           st.WindSpeed,
		YawFromNorth:        st.YawFromNorth,
		YawError:            st.YawError,
		Torque:              out.Torque,
		Pitch:               out.Pitch,
		NacelleYawRate:      out.NacelleYawRate,
		Status:              status,
		Message:             msg,
	}
}

// Recorder stores exchanges for offline inspection.
type Recorder interface {
	Record(s Step) error
	Flush() error
	Close() error
}

const createStepsSQL = `CREATE TABLE steps (
	step                 INTEGER PRIMARY KEY,
	time                 REAL,
	timestep             REAL,
	blade_pitch          REAL,
	generator_speed      REAL,
	generator_torque     REAL,
	generator_efficiency REAL,
	rotor_speed          REAL,
	wind_speed           REAL,
	yaw_from_north       REAL,
	yaw_error            REAL,
	torque               REAL,
	pitch                REAL,
	nacelle_yaw_rate     REAL,
	status               INTEGER,
	message              TEXT
);`

const insertStepSQL = `INSERT INTO steps VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectStepsSQL = `SELECT step, time, timestep, blade_pitch, generator_speed,
	generator_torque, generator_efficiency, rotor_speed, wind_speed,
	yaw_from_north, yaw_error, torque, pitch, nacelle_yaw_rate, status, message
	FROM steps ORDER BY step`

// DefaultBatchSize is the number of buffered steps that triggers a flush.
const DefaultBatchSize = 1000

// SQLiteRecorder writes steps into a SQLite database in batches.
type SQLiteRecorder struct {
	db   *sql.DB
	path string

	pending   []Step
	batchSize int
	closed    bool
}

var _ Recorder = (*SQLiteRecorder)(nil)

// DefaultName returns a unique database base name for a run.
func DefaultName() string {
	return "discon_run_" + xid.New().String()
}

// New creates a database at path. An empty path gets a generated name, and a
// missing extension gets ".sqlite3". Existing files are never overwritten.
// Pending steps are flushed at process exit.
func New(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = DefaultName()
	}
	if filepath.Ext(path) == "" {
		path += ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("record: file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	if _, err := db.Exec(createStepsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("record: create table: %w", err)
	}

	r := &SQLiteRecorder{
		db:        db,
		path:      path,
		batchSize: DefaultBatchSize,
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			logrus.WithError(err).Error("Failed to flush step recording at exit")
		}
	})

	logrus.WithFields(logrus.Fields{
		"function": "record.New",
		"path":     path,
	}).Info("Database created for recording")

	return r, nil
}

// Path returns the database file name.
func (r *SQLiteRecorder) Path() string {
	return r.path
}

// SetBatchSize changes how many steps are buffered before a flush.
func (r *SQLiteRecorder) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	r.batchSize = n
}

// Record buffers a step, flushing when the batch is full.
func (r *SQLiteRecorder) Record(s Step) error {
	if r.closed {
		return fmt.Errorf("record: recorder closed")
	}
	r.pending = append(r.pending, s)
	if len(r.pending) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes all buffered steps in one transaction.
func (r *SQLiteRecorder) Flush() error {
	if r.closed || len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("record: begin: %w", err)
	}

	stmt, err := tx.Prepare(insertStepSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record: prepare: %w", err)
	}
	defer stmt.Close()

	for _, s := range r.pending {
		_, err := stmt.Exec(
			s.Step, s.Time, s.TimeStep, s.BladePitch, s.GeneratorSpeed,
			s.GeneratorTorque, s.GeneratorEfficiency, s.RotorSpeed, s.WindSpeed,
			s.YawFromNorth, s.YawError, s.Torque, s.Pitch, s.NacelleYawRate,
			s.Status, s.Message,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record: insert step %d: %w", s.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record: commit: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "SQLiteRecorder.Flush",
		"steps":    len(r.pending),
	}).Debug("Flushed recorded steps")

	r.pending = r.pending[:0]
	return nil
}

// Steps flushes and reads every recorded step back in order.
func (r *SQLiteRecorder) Steps() ([]Step, error) {
	if err := r.Flush(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(selectStepsSQL)
	if err != nil {
		return nil, fmt.Errorf("record: query: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		if err := rows.Scan(
			&s.Step, &s.Time, &s.TimeStep, &s.BladePitch, &s.GeneratorSpeed,
			&s.GeneratorTorque, &s.GeneratorEfficiency, &s.RotorSpeed, &s.WindSpeed,
			&s.YawFromNorth, &s.YawError, &s.Torque, &s.Pitch, &s.NacelleYawRate,
			&s.Status, &s.Message,
		); err != nil {
			return nil, fmt.Errorf("record: scan: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// Close flushes and closes the database.
func (r *SQLiteRecorder) Close() error {
	if r.closed {
		return nil
	}
	err := r.Flush()
	r.closed = true
	if cerr := r.db.Close(); err == nil {
		err = cerr
	}
	return err
}
