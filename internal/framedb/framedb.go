// Package framedb persists decoded ranging frames to SQLite for offline
// analysis. Each Open mints a capture session UUID; every recorded frame
// carries it together with a monotonic sequence number, so several capture
// runs can share one database file.
package framedb

import (
	"database/sql"
	_ "embed"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vl53l5cx-go/drivers/vl53l5cx"
	"vl53l5cx-go/errcode"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the capture database. RecordFrame is not safe for concurrent
// use; the capture loop is single-threaded.
type DB struct {
	*sql.DB
	session string
	seq     int64
}

// Open opens or creates the capture database at path and applies the
// schema. The special path ":memory:" keeps the database in RAM.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &errcode.E{C: errcode.DBError, Op: "open db", Err: err}
	}
	// SQLite is single-writer, and an in-memory database exists per
	// connection. One connection serves both cases.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &errcode.E{C: errcode.DBError, Op: "apply schema", Err: err}
	}
	return &DB{DB: db, session: uuid.NewString()}, nil
}

// Session returns the capture session identifier minted at Open.
func (db *DB) Session() string { return db.session }

// RecordFrame writes one decoded frame and all its zone/target measurements
// in a single transaction.
func (db *DB) RecordFrame(sensor string, f *vl53l5cx.Frame) error {
	res := f.Resolution()
	zones := res.Zones()
	if zones == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "record frame", Msg: "empty frame"}
	}

	tx, err := db.Begin()
	if err != nil {
		return &errcode.E{C: errcode.DBError, Op: "record frame", Err: err}
	}
	db.seq++
	r, err := tx.Exec(`
		INSERT INTO frames (session, seq, sensor, zones, silicon_c)
		VALUES (?, ?, ?, ?, ?)
	`, db.session, db.seq, sensor, zones, f.SiliconTempCelsius())
	if err != nil {
		tx.Rollback()
		return &errcode.E{C: errcode.DBError, Op: "insert frame", Err: err}
	}
	frameID, err := r.LastInsertId()
	if err != nil {
		tx.Rollback()
		return &errcode.E{C: errcode.DBError, Op: "insert frame", Err: err}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO zones (frame_id, zone, target, distance_mm, status,
			signal_kcps, sigma_mm, ambient_kcps, reflectance_pct, nb_targets)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return &errcode.E{C: errcode.DBError, Op: "insert zones", Err: err}
	}
	defer stmt.Close()

	var (
		side     = res.Side()
		dist     = f.Distance()
		status   = f.TargetStatus()
		signal   = f.SignalPerSPAD()
		sigma    = f.RangeSigma()
		ambient  = f.AmbientPerSPAD()
		refl     = f.Reflectance()
		detected = f.TargetsDetected()
	)
	for z := 0; z < zones; z++ {
		row, col := z/side, z%side
		for tgt := 0; tgt < vl53l5cx.MaxTargetsPerZone; tgt++ {
			_, err := stmt.Exec(frameID, z, tgt,
				dist.At(row, col)[tgt],
				status.At(row, col)[tgt],
				signal.At(row, col)[tgt],
				sigma.At(row, col)[tgt],
				ambient.At(row, col),
				refl.At(row, col)[tgt],
				detected.At(row, col),
			)
			if err != nil {
				tx.Rollback()
				return &errcode.E{C: errcode.DBError, Op: "insert zones", Err: err}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return &errcode.E{C: errcode.DBError, Op: "record frame", Err: err}
	}
	return nil
}

// FrameMeta describes one recorded frame.
type FrameMeta struct {
	ID         int64
	Session    string
	Seq        int64
	CapturedAt float64
	Sensor     string
	Zones      int
	SiliconC   int8
}

// Frames lists the frames of one session in capture order.
func (db *DB) Frames(session string) ([]FrameMeta, error) {
	rows, err := db.Query(`
		SELECT id, session, seq, captured_at, sensor, zones, silicon_c
		FROM frames WHERE session = ? ORDER BY seq
	`, session)
	if err != nil {
		return nil, &errcode.E{C: errcode.DBError, Op: "list frames", Err: err}
	}
	defer rows.Close()

	var out []FrameMeta
	for rows.Next() {
		var m FrameMeta
		err := rows.Scan(&m.ID, &m.Session, &m.Seq, &m.CapturedAt,
			&m.Sensor, &m.Zones, &m.SiliconC)
		if err != nil {
			return nil, &errcode.E{C: errcode.DBError, Op: "scan frame", Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &errcode.E{C: errcode.DBError, Op: "list frames", Err: err}
	}
	return out, nil
}

// Zone holds one zone/target measurement of a recorded frame.
type Zone struct {
	Zone           int
	Target         int
	DistanceMM     int16
	Status         uint8
	SignalKCPS     uint32
	SigmaMM        uint16
	AmbientKCPS    uint32
	ReflectancePct uint8
	NbTargets      uint8
}

// Zones returns the measurements of one frame ordered by zone then target.
func (db *DB) Zones(frameID int64) ([]Zone, error) {
	rows, err := db.Query(`
		SELECT zone, target, distance_mm, status, signal_kcps, sigma_mm,
			ambient_kcps, reflectance_pct, nb_targets
		FROM zones WHERE frame_id = ? ORDER BY zone, target
	`, frameID)
	if err != nil {
		return nil, &errcode.E{C: errcode.DBError, Op: "list zones", Err: err}
	}
	defer rows.Close()

	var out []Zone
	for rows.Next() {
		var z Zone
		err := rows.Scan(&z.Zone, &z.Target, &z.DistanceMM, &z.Status,
			&z.SignalKCPS, &z.SigmaMM, &z.AmbientKCPS, &z.ReflectancePct, &z.NbTargets)
		if err != nil {
			return nil, &errcode.E{C: errcode.DBError, Op: "scan zone", Err: err}
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, &errcode.E{C: errcode.DBError, Op: "list zones", Err: err}
	}
	return out, nil
}
