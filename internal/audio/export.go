// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// Export writes the clip to path as PCM WAV.
func (c *Clip) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// ExportTemp writes the clip to a new temporary WAV file and returns its
// path. The caller owns the file and removes it with RemoveTemp.
func (c *Clip) ExportTemp() (string, error) {
	f, err := os.CreateTemp("", "scope-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := c.encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// RemoveTemp deletes a file created by ExportTemp. Empty paths and missing
// files are ignored.
func RemoveTemp(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Clip) encode(f *os.File) error {
	bitDepth := c.BitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	enc := wav.NewEncoder(f, c.SampleRate(), bitDepth, c.Channels(), wavFormatPCM)
	if err := enc.Write(c.Buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
