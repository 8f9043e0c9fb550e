// Package maintenance holds offline operations on the data at rest. They
// must only run while no console session is active.
package maintenance

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/repomanager"
)

// Report counts the rows or lines a rotation touched. Skipped values could
// not be decrypted with the old key and were left as they were.
type Report struct {
	Users      int
	Scooters   int
	Travellers int
	Lines      int
	Skipped    int
}

// rekeyer re-encrypts fields from one key to another and keeps the first
// encryption error.
type rekeyer struct {
	from, to *cryptox.FieldCipher
	skipped  int
	err      error
}

// rekey replaces *tok with its re-encryption and returns the plaintext. A
// token that does not decrypt is left in place and ok is false. Empty
// columns stay empty.
func (r *rekeyer) rekey(tok *string) (plain string, ok bool) {
	if r.err != nil || *tok == "" {
		return "", false
	}
	plain, err := r.from.Open(*tok)
	if errors.Is(err, common.ErrUninitializedCrypto) {
		r.err = err
		return "", false
	}
	if err != nil {
		r.skipped++
		return "", false
	}
	out, err := r.to.Encrypt(plain)
	if err != nil {
		r.err = err
		return "", false
	}
	*tok = out
	return plain, true
}

func (r *rekeyer) rekeyNull(v *sql.NullString) {
	if v.Valid {
		r.rekey(&v.String)
	}
}

// RotateFieldKey re-encrypts every encrypted column from oldCipher to
// newCipher and recomputes the blind indexes with newIndex, in a single
// transaction. Nothing is changed if any step fails.
func RotateFieldKey(ctx context.Context, db *sql.DB, oldCipher, newCipher *cryptox.FieldCipher, newIndex *cryptox.BlindIndex) (Report, error) {
	if !oldCipher.Ready() || !newCipher.Ready() {
		return Report{}, common.ErrUninitializedCrypto
	}
	repos := repomanager.NewSQLiteRepositoryManager()
	var rep Report
	rk := &rekeyer{from: oldCipher, to: newCipher}

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := repos.Users(tx)
		users, err := userRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			u := &users[i]
			if name, ok := rk.rekey(&u.Username); ok {
				u.UsernameIndex = newIndex.Compute(cryptox.IndexUsername, name)
			}
			rk.rekey(&u.PasswordHash)
			rk.rekey(&u.Role)
			rk.rekey(&u.FirstName)
			rk.rekey(&u.LastName)
			if rk.err != nil {
				return rk.err
			}
			if err := userRepo.Update(ctx, u); err != nil {
				return fmt.Errorf("user %d: %w", u.ID, err)
			}
			rep.Users++
		}

		scooterRepo := repos.Scooters(tx)
		scooters, err := scooterRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range scooters {
			s := &scooters[i]
			if serial, ok := rk.rekey(&s.SerialNumber); ok {
				s.SerialIndex = newIndex.Compute(cryptox.IndexSerialNumber, serial)
			}
			rk.rekey(&s.Brand)
			rk.rekey(&s.Model)
			rk.rekey(&s.TargetRangeStateOfCharge)
			rk.rekey(&s.Location)
			if rk.err != nil {
				return rk.err
			}
			if err := scooterRepo.Update(ctx, s); err != nil {
				return fmt.Errorf("scooter %d: %w", s.ID, err)
			}
			rep.Scooters++
		}

		travellerRepo := repos.Travellers(tx)
		travellers, err := travellerRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range travellers {
			t := &travellers[i]
			for _, f := range []*string{&t.FirstName, &t.LastName, &t.Gender, &t.Street,
				&t.HouseNumber, &t.ZipCode, &t.City, &t.Email} {
				rk.rekey(f)
			}
			rk.rekeyNull(&t.Phone)
			rk.rekeyNull(&t.DrivingLicense)
			if rk.err != nil {
				return rk.err
			}
			if err := travellerRepo.Update(ctx, t); err != nil {
				return fmt.Errorf("traveller %d: %w", t.ID, err)
			}
			rep.Travellers++
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("rotate field key: %w", err)
	}
	rep.Skipped = rk.skipped
	return rep, nil
}

// RotateAuditLog rewrites the audit log at path under newCipher. Lines that
// do not decrypt with oldCipher are copied unchanged. The new content is
// written to a temporary file in the same directory and renamed over the
// original, so a crash leaves either the old or the new log.
func RotateAuditLog(path string, oldCipher, newCipher *cryptox.FieldCipher) (Report, error) {
	var rep Report
	if !oldCipher.Ready() || !newCipher.Ready() {
		return rep, common.ErrUninitializedCrypto
	}

	src, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return rep, nil
	}
	if err != nil {
		return rep, fmt.Errorf("open audit log: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".rotate-*")
	if err != nil {
		return rep, fmt.Errorf("create temp log: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o600); err != nil {
		return rep, err
	}

	rk := &rekeyer{from: oldCipher, to: newCipher}
	w := bufio.NewWriter(tmp)
	r := bufio.NewReader(src)
	for {
		chunk, readErr := r.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return rep, fmt.Errorf("read audit log: %w", readErr)
		}
		if line := string(bytes.TrimSpace(chunk)); line != "" {
			rk.rekey(&line)
			if rk.err != nil {
				return rep, rk.err
			}
			if _, err := w.WriteString(line + "\n"); err != nil {
				return rep, fmt.Errorf("write temp log: %w", err)
			}
			rep.Lines++
		}
		if readErr != nil {
			break
		}
	}

	if err := w.Flush(); err != nil {
		return rep, fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return rep, fmt.Errorf("sync temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return rep, fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return rep, fmt.Errorf("replace audit log: %w", err)
	}
	committed = true

	rep.Skipped = rk.skipped
	return rep, nil
}
