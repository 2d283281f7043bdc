package importing

import (
	"io"
	"sync"
)

// ReadingProgress receives read progress for the files of one batch.
// StartFile and EndFile are called in strict pairs, one pair per file,
// in file-processing order.
type ReadingProgress interface {
	// StartFile marks the beginning of one file's read.
	StartFile(source string)

	// ReadingFile reports the bytes read from the current file so far.
	ReadingFile(source string, bytesRead int64)

	// EndFile marks the end of one file's read. byteLen is the byte
	// length of the underlying resource, or 0 when unknown.
	EndFile(source string, byteLen int64)
}

// NopProgress is a ReadingProgress that discards all notifications.
type NopProgress struct{}

func (NopProgress) StartFile(string)           {}
func (NopProgress) ReadingFile(string, int64)  {}
func (NopProgress) EndFile(string, int64)      {}

// ProgressReporter receives batch-level progress updates: a fraction in
// [0,1] and the source label currently being read.
type ProgressReporter func(fraction float64, source string)

// MultiFileProgress aggregates byte progress across a whole batch and
// forwards the overall fraction to a reporter.
type MultiFileProgress struct {
	mu sync.Mutex

	reporter   ProgressReporter
	totalBytes int64
	doneBytes  int64
	fileBytes  int64
}

// NewMultiFileProgress creates progress over a batch whose resources
// total totalBytes. Pass 0 when sizes are unknown; fractions are then
// not reported.
func NewMultiFileProgress(totalBytes int64, reporter ProgressReporter) *MultiFileProgress {
	return &MultiFileProgress{
		reporter:   reporter,
		totalBytes: totalBytes,
	}
}

// BatchSize sums the byte lengths of a batch's records, opening and
// closing each resolvable record. Records that cannot be resolved
// contribute zero.
func BatchSize(records []FileRecord, rawDataDir string) int64 {
	var total int64
	for _, rec := range records {
		rc, size, err := rec.Open(rawDataDir)
		if err != nil {
			continue
		}
		rc.Close()
		total += size
	}
	return total
}

// StartFile marks the beginning of one file's read.
func (p *MultiFileProgress) StartFile(source string) {
	p.mu.Lock()
	p.fileBytes = 0
	p.mu.Unlock()
	p.report(source)
}

// ReadingFile reports the bytes read from the current file so far.
func (p *MultiFileProgress) ReadingFile(source string, bytesRead int64) {
	p.mu.Lock()
	p.fileBytes = bytesRead
	p.mu.Unlock()
	p.report(source)
}

// EndFile marks the end of one file's read.
func (p *MultiFileProgress) EndFile(source string, byteLen int64) {
	p.mu.Lock()
	p.doneBytes += byteLen
	p.fileBytes = 0
	p.mu.Unlock()
	p.report(source)
}

func (p *MultiFileProgress) report(source string) {
	if p.reporter == nil {
		return
	}
	p.mu.Lock()
	total := p.totalBytes
	read := p.doneBytes + p.fileBytes
	p.mu.Unlock()

	if total <= 0 {
		return
	}
	fraction := float64(read) / float64(total)
	if fraction > 1 {
		fraction = 1
	}
	p.reporter(fraction, source)
}

// TrackReader wraps r so every read is reported to progress under the
// given source label.
func TrackReader(r io.Reader, source string, progress ReadingProgress) io.Reader {
	return &trackedReader{r: r, source: source, progress: progress}
}

type trackedReader struct {
	r        io.Reader
	source   string
	progress ReadingProgress
	read     int64
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		t.read += int64(n)
		t.progress.ReadingFile(t.source, t.read)
	}
	return n, err
}
