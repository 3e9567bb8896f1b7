package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// TesseractOCR shells out to the tesseract binary to read text off an
// image.
type TesseractOCR struct {
	Lang    string
	Timeout time.Duration
}

func NewTesseractOCR(lang string) *TesseractOCR {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractOCR{Lang: lang, Timeout: 20 * time.Second}
}

// Extract OCRs the whole image into a single text blob.
func (t *TesseractOCR) Extract(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", errors.New("tesseract not found in PATH")
	}

	// tesseract only reads from files, not stdin.
	f, err := os.CreateTemp("", "upload-*.img")
	if err != nil {
		return "", err
	}
	defer func() { f.Close(); os.Remove(f.Name()) }()
	if _, err := f.Write(data); err != nil {
		return "", err
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := []string{f.Name(), "stdout"}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}

	cmd := exec.CommandContext(ctx, "tesseract", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.New(stderr.String())
	}
	return out.String(), nil
}
