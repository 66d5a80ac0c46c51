// Package persist implements the feature/match on-disk format: a
// human-readable JSON encoding and a compact length-prefixed binary
// encoding, selected by file suffix, that round-trip without loss.
package persist

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openakaze/akaze/internal/model"
)

// FeatureSet is the on-disk envelope for a detected feature set.
type FeatureSet struct {
	Keypoints   []model.Keypoint   `json:"keypoints"`
	Descriptors []model.Descriptor `json:"descriptors"`
}

// MatchSet is the on-disk envelope for a match list.
type MatchSet struct {
	Matches []model.Match `json:"matches"`
}

const binaryMagic = "AKZ1"

// SaveFeatures writes fs to path, choosing JSON for a ".json" suffix and
// the compact binary encoding otherwise. Writes go through a temp file
// and atomic rename so a crash mid-write never leaves a truncated file
// at path.
func SaveFeatures(path string, fs FeatureSet) error {
	return atomicWrite(path, func(w io.Writer) error {
		if isJSON(path) {
			return json.NewEncoder(w).Encode(fs)
		}
		return writeFeaturesBinary(w, fs)
	})
}

// LoadFeatures reads a FeatureSet previously written by SaveFeatures.
func LoadFeatures(path string) (FeatureSet, error) {
	var fs FeatureSet
	f, err := os.Open(path)
	if err != nil {
		return fs, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	if isJSON(path) {
		if err := json.NewDecoder(f).Decode(&fs); err != nil {
			return fs, fmt.Errorf("persist: decode json %s: %w", path, err)
		}
		return fs, nil
	}
	fs, err = readFeaturesBinary(f)
	if err != nil {
		return fs, fmt.Errorf("persist: decode binary %s: %w", path, err)
	}
	return fs, nil
}

// SaveMatches writes matches to path using the same suffix-driven choice
// of encoding as SaveFeatures.
func SaveMatches(path string, ms MatchSet) error {
	return atomicWrite(path, func(w io.Writer) error {
		if isJSON(path) {
			return json.NewEncoder(w).Encode(ms)
		}
		return writeMatchesBinary(w, ms)
	})
}

// LoadMatches reads a MatchSet previously written by SaveMatches.
func LoadMatches(path string) (MatchSet, error) {
	var ms MatchSet
	f, err := os.Open(path)
	if err != nil {
		return ms, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer f.Close()

	if isJSON(path) {
		if err := json.NewDecoder(f).Decode(&ms); err != nil {
			return ms, fmt.Errorf("persist: decode json %s: %w", path, err)
		}
		return ms, nil
	}
	ms, err = readMatchesBinary(f)
	if err != nil {
		return ms, fmt.Errorf("persist: decode binary %s: %w", path, err)
	}
	return ms, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func atomicWrite(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: create dir %s: %w", dir, err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("persist: create temp file %s: %w", tmp, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("persist: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: close temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

func writeFeaturesBinary(w io.Writer, fs FeatureSet) error {
	if _, err := io.WriteString(w, binaryMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(fs.Keypoints))); err != nil {
		return err
	}
	for _, kp := range fs.Keypoints {
		if err := writeKeypoint(w, kp); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(fs.Descriptors))); err != nil {
		return err
	}
	for _, d := range fs.Descriptors {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(d.Bits))); err != nil {
			return err
		}
		if _, err := w.Write(d.Bits); err != nil {
			return err
		}
	}
	return nil
}

func readFeaturesBinary(r io.Reader) (FeatureSet, error) {
	var fs FeatureSet
	magic := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fs, err
	}
	if string(magic) != binaryMagic {
		return fs, fmt.Errorf("persist: bad magic %q", magic)
	}

	var numKp uint32
	if err := binary.Read(r, binary.LittleEndian, &numKp); err != nil {
		return fs, err
	}
	fs.Keypoints = make([]model.Keypoint, numKp)
	for i := range fs.Keypoints {
		kp, err := readKeypoint(r)
		if err != nil {
			return fs, err
		}
		fs.Keypoints[i] = kp
	}

	var numDesc uint32
	if err := binary.Read(r, binary.LittleEndian, &numDesc); err != nil {
		return fs, err
	}
	fs.Descriptors = make([]model.Descriptor, numDesc)
	for i := range fs.Descriptors {
		var byteLen uint32
		if err := binary.Read(r, binary.LittleEndian, &byteLen); err != nil {
			return fs, err
		}
		bits := make([]byte, byteLen)
		if _, err := io.ReadFull(r, bits); err != nil {
			return fs, err
		}
		fs.Descriptors[i] = model.Descriptor{Bits: bits}
	}
	return fs, nil
}

func writeKeypoint(w io.Writer, kp model.Keypoint) error {
	fields := []float64{kp.X, kp.Y, kp.Response, kp.Size, float64(kp.Octave), float64(kp.ClassID), kp.Angle}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readKeypoint(r io.Reader) (model.Keypoint, error) {
	var fields [7]float64
	for i := range fields {
		if err := binary.Read(r, binary.LittleEndian, &fields[i]); err != nil {
			return model.Keypoint{}, err
		}
	}
	return model.Keypoint{
		X:        fields[0],
		Y:        fields[1],
		Response: fields[2],
		Size:     fields[3],
		Octave:   int(fields[4]),
		ClassID:  int(fields[5]),
		Angle:    fields[6],
	}, nil
}

func writeMatchesBinary(w io.Writer, ms MatchSet) error {
	if _, err := io.WriteString(w, binaryMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ms.Matches))); err != nil {
		return err
	}
	for _, m := range ms.Matches {
		fields := []int32{int32(m.Index0), int32(m.Index1), int32(m.Distance)}
		for _, v := range fields {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func readMatchesBinary(r io.Reader) (MatchSet, error) {
	var ms MatchSet
	magic := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return ms, err
	}
	if string(magic) != binaryMagic {
		return ms, fmt.Errorf("persist: bad magic %q", magic)
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return ms, err
	}
	ms.Matches = make([]model.Match, n)
	for i := range ms.Matches {
		var fields [3]int32
		for j := range fields {
			if err := binary.Read(r, binary.LittleEndian, &fields[j]); err != nil {
				return ms, err
			}
		}
		ms.Matches[i] = model.Match{
			Index0:   int(fields[0]),
			Index1:   int(fields[1]),
			Distance: int(fields[2]),
		}
	}
	return ms, nil
}
