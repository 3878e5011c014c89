package melc

import (
	"context"
	"database/sql"
	"errors"
)

// SQLBank serves the MELC lookup out of the competencies table.
type SQLBank struct {
	db *sql.DB
}

func NewSQLBank(db *sql.DB) *SQLBank {
	return &SQLBank{db: db}
}

// Seed inserts the bundled MELC records, skipping codes that already exist.
// Safe to run at every startup.
func (s *SQLBank) Seed(ctx context.Context) error {
	records, err := SeedRecords()
	if err != nil {
		return err
	}
	for i, c := range records {
		_, err := s.db.ExecContext(ctx, `INSERT INTO competencies
			(code, subject, grade, quarter, description, sessions, custom, seq)
			VALUES ($1,$2,$3,$4,$5,$6,0,$7)
			ON CONFLICT (code) DO NOTHING`,
			c.Code, c.Subject, c.Grade, c.Quarter, c.Description, c.Sessions, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLBank) Subjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT subject FROM competencies ORDER BY subject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (s *SQLBank) Grades(ctx context.Context, subject string) ([]int, error) {
	return s.intColumn(ctx, `SELECT DISTINCT grade FROM competencies WHERE subject=$1 ORDER BY grade`, subject)
}

func (s *SQLBank) Quarters(ctx context.Context, subject string, grade int) ([]int, error) {
	return s.intColumn(ctx, `SELECT DISTINCT quarter FROM competencies WHERE subject=$1 AND grade=$2 ORDER BY quarter`, subject, grade)
}

func (s *SQLBank) intColumn(ctx context.Context, query string, args ...interface{}) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLBank) Filter(ctx context.Context, subject string, grade, quarter int) ([]Competency, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, subject, grade, quarter, description, sessions, custom
		FROM competencies WHERE subject=$1 AND grade=$2 AND quarter=$3 ORDER BY seq, code`,
		subject, grade, quarter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Competency
	for rows.Next() {
		c, err := scanCompetency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLBank) Get(ctx context.Context, code string) (Competency, error) {
	row := s.db.QueryRowContext(ctx, `SELECT code, subject, grade, quarter, description, sessions, custom
		FROM competencies WHERE code=$1`, code)
	var c Competency
	var custom int
	err := row.Scan(&c.Code, &c.Subject, &c.Grade, &c.Quarter, &c.Description, &c.Sessions, &custom)
	if errors.Is(err, sql.ErrNoRows) {
		return Competency{}, ErrNotFound
	}
	if err != nil {
		return Competency{}, err
	}
	c.Custom = custom != 0
	return c, nil
}

func (s *SQLBank) Add(ctx context.Context, c Competency) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO competencies
		(code, subject, grade, quarter, description, sessions, custom, seq)
		VALUES ($1,$2,$3,$4,$5,$6,1,
			(SELECT COALESCE(MAX(seq),0)+1 FROM competencies))
		ON CONFLICT (code) DO NOTHING`,
		c.Code, c.Subject, c.Grade, c.Quarter, c.Description, c.Sessions)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errField("code already exists")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompetency(r rowScanner) (Competency, error) {
	var c Competency
	var custom int
	if err := r.Scan(&c.Code, &c.Subject, &c.Grade, &c.Quarter, &c.Description, &c.Sessions, &custom); err != nil {
		return Competency{}, err
	}
	c.Custom = custom != 0
	return c, nil
}
