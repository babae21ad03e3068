// Package backup writes and reads portable archives of the reader's state.
//
// An archive is an xz stream holding a JSON envelope. The envelope carries
// the BLAKE3 digest of the state payload so truncated or edited files are
// rejected on import.
package backup

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/fileutil"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

const (
	// Format identifies backup envelopes.
	Format = "mialma-backup"
	// Version is the envelope version written by Export.
	Version = 1
)

// Envelope is the uncompressed archive body.
type Envelope struct {
	Format    string          `json:"format"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	BLAKE3    string          `json:"blake3"`
	State     json.RawMessage `json:"state"`
}

// Checksum returns the hex BLAKE3-256 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Export writes snap to w as a compressed archive.
func Export(w io.Writer, snap *state.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	body, err := json.Marshal(Envelope{
		Format:    Format,
		Version:   Version,
		CreatedAt: snap.TakenAt,
		BLAKE3:    Checksum(payload),
		State:     payload,
	})
	if err != nil {
		return errors.Wrap(err, "encode envelope")
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "create xz writer")
	}
	if _, err := xw.Write(body); err != nil {
		xw.Close()
		return errors.NewIO("write", "backup", err)
	}
	if err := xw.Close(); err != nil {
		return errors.NewIO("write", "backup", err)
	}
	return nil
}

// Import reads an archive written by Export and verifies its checksum.
func Import(r io.Reader) (*state.Snapshot, error) {
	env, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	if got := Checksum(env.State); got != env.BLAKE3 {
		return nil, errors.NewParse("backup", "", fmt.Sprintf("checksum mismatch: have %s, recorded %s", got, env.BLAKE3))
	}

	var snap state.Snapshot
	if err := json.Unmarshal(env.State, &snap); err != nil {
		return nil, errors.NewParse("backup", "", "state: "+err.Error())
	}
	return &snap, nil
}

func readEnvelope(r io.Reader) (*Envelope, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, errors.NewParse("backup", "", "not an xz stream: "+err.Error())
	}
	body, err := io.ReadAll(xr)
	if err != nil {
		return nil, errors.NewParse("backup", "", "decompress: "+err.Error())
	}

	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&env); err != nil {
		return nil, errors.NewParse("backup", "", "envelope: "+err.Error())
	}
	if env.Format != Format {
		return nil, errors.NewParse("backup", "", fmt.Sprintf("unexpected format %q", env.Format))
	}
	if env.Version != Version {
		return nil, errors.NewParse("backup", "", fmt.Sprintf("unsupported version %d", env.Version))
	}
	return &env, nil
}

// WriteFile exports snap to path. An existing archive is replaced only once
// the new one is complete.
func WriteFile(path string, snap *state.Snapshot) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return Export(w, snap)
	})
}

// ReadFile imports the archive at path.
func ReadFile(path string) (*state.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return Import(f)
}
