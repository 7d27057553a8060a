package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// ProgressReader reports how much of the input has been consumed.
type ProgressReader struct {
	bar    *progressbar.ProgressBar
	reader progressbar.Reader
}

// NewProgressReader wraps r with a byte progress bar drawn on w. A size of -1
// renders a spinner instead of a bar.
func NewProgressReader(r io.Reader, size int64, w io.Writer) *ProgressReader {
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Processing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	return &ProgressReader{
		bar:    bar,
		reader: progressbar.NewReader(r, bar),
	}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	return p.reader.Read(b)
}

// Finish completes the bar.
func (p *ProgressReader) Finish() error {
	return p.bar.Finish()
}
