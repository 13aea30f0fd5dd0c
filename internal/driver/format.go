package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mmdfmt/internal/diag"
	"mmdfmt/internal/format"
	"mmdfmt/internal/observ"
	"mmdfmt/internal/parser"
	"mmdfmt/internal/project"
	"mmdfmt/internal/source"
	"mmdfmt/internal/trace"
)

// Mode selects what happens to formatted output.
type Mode uint8

const (
	// ModeStdout returns formatted content without touching files.
	ModeStdout Mode = iota
	// ModeWrite rewrites changed files in place.
	ModeWrite
	// ModeCheck only reports which files would change.
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	default:
		return "stdout"
	}
}

// StdinName is the display name of standard input.
const StdinName = "<stdin>"

// FormatOptions configures a formatting run.
type FormatOptions struct {
	Mode           Mode
	Options        format.Options
	Manifest       project.Manifest
	Jobs           int
	MaxDiagnostics int
	// Verify re-parses every output and fails files whose statement shape
	// changed or whose second pass is not a no-op.
	Verify   bool
	Cache    *ResultCache
	Progress ProgressSink
	Timer    *observ.Timer
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	FileID    source.FileID
	Changed   bool
	Cached    bool
	Formatted []byte
	Err       error
	Bag       *diag.Bag
}

// FormatReport is the outcome of a run. Diagnostics in result bags refer
// to files of FileSet.
type FormatReport struct {
	FileSet *source.FileSet
	Results []FormatResult
}

// HasErrors reports whether any file failed.
func (r *FormatReport) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// ChangedPaths lists files whose formatting differs from their content.
func (r *FormatReport) ChangedPaths() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, res := range r.Results {
		if res.Err == nil && res.Changed {
			out = append(out, res.Path)
		}
	}
	return out
}

// FormatPaths formats provided files or directories (recursively collecting
// files by extension). Files are processed in parallel; a failing file does
// not stop the others. The returned error covers only collection failures
// and cancellation.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) (*FormatReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Options.Validate(); err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "collect")
	files, err := collectSourceFiles(ctx, paths, opts.Manifest)
	span.WithExtra("files", fmt.Sprint(len(files))).End("")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no diagram files found")
	}

	fileSet := source.NewFileSetWithBase(opts.Manifest.Root)
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error, len(files))

	// FileSet не потокобезопасен: загружаем последовательно
	loadIdx := opts.Timer.Begin("load")
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			// пустой виртуальный файл, чтобы диагностика знала путь
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = fileID
	}
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))

	formatIdx := opts.Timer.Begin("format")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(opts.MaxDiagnostics)
			if loadErr, ok := loadErrors[i]; ok {
				bag.Add(diag.Errorf(diag.IOLoadFileError, source.Span{File: fileIDs[i]},
					"failed to load file: %v", loadErr))
				results[i] = FormatResult{Path: path, FileID: fileIDs[i], Err: loadErr, Bag: bag}
				emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: loadErr})
				return nil
			}
			results[i] = formatOne(gctx, fileSet.Get(fileIDs[i]), fileSet, bag, opts)
			return nil
		})
	}
	err = g.Wait()
	opts.Timer.End(formatIdx, "")
	report := &FormatReport{FileSet: fileSet, Results: results}
	if err != nil {
		return report, err
	}
	return report, nil
}

// FormatReader formats a single input read from r. Write mode is not
// available for readers; it behaves as ModeStdout.
func FormatReader(ctx context.Context, name string, r io.Reader, opts FormatOptions) (*FormatReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Options.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		name = StdinName
	}
	if opts.Mode == ModeWrite {
		opts.Mode = ModeStdout
	}
	fileSet := source.NewFileSet()
	fileID, err := fileSet.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := formatOne(ctx, fileSet.Get(fileID), fileSet, bag, opts)
	return &FormatReport{FileSet: fileSet, Results: []FormatResult{res}}, nil
}

func formatOne(ctx context.Context, file *source.File, fileSet *source.FileSet, bag *diag.Bag, opts FormatOptions) FormatResult {
	path := file.Path
	_, span := trace.StartSpan(ctx, trace.ScopeFile, path)
	defer span.End("")

	began := time.Now()
	res := FormatResult{Path: path, FileID: file.ID, Bag: bag}
	fail := func(stage Stage, err error) FormatResult {
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err})
		span.WithExtra("error", err.Error())
		return res
	}

	key := CacheKey(file.Hash, opts.Options, opts.Verify)
	var payload CachePayload
	hit, cacheErr := opts.Cache.Get(key, &payload)
	switch {
	case cacheErr != nil:
		// битая запись: считаем промахом и перезапишем
		hit = false
	case hit:
		res.Cached = true
		res.Formatted = payload.Formatted
	}

	if !hit {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
		start := time.Now()
		d, err := parser.ParseFile(fileSet, file.ID, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		opts.Timer.Observe("parse", time.Since(start))
		if err != nil {
			return fail(StageParse, err)
		}

		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
		start = time.Now()
		res.Formatted = format.Format(d, opts.Options)
		opts.Timer.Observe("render", time.Since(start))

		if opts.Verify {
			emit(opts.Progress, Event{File: path, Stage: StageVerify, Status: StatusWorking})
			if err := verify(file, bag, opts.Options); err != nil {
				return fail(StageVerify, err)
			}
		}
		if err := opts.Cache.Put(key, &CachePayload{Path: path, Formatted: res.Formatted, Verified: opts.Verify}); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeDebug, "cache-put", err.Error(), span.ID())
		}
	}

	res.Changed = needsRewrite(file, res.Formatted)
	switch opts.Mode {
	case ModeCheck:
		if res.Changed {
			bag.Add(diag.Warningf(diag.FmtNotFormatted, source.Span{File: file.ID}, "file is not formatted"))
		}
		res.Formatted = nil
	case ModeWrite:
		if res.Changed {
			emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
			start := time.Now()
			err := writeFile(path, res.Formatted)
			opts.Timer.Observe("write", time.Since(start))
			if err != nil {
				bag.Add(diag.Errorf(diag.IOWriteError, source.Span{File: file.ID}, "%v", err))
				return fail(StageWrite, err)
			}
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusDone, Elapsed: time.Since(began), Cached: res.Cached})
	return res
}

// needsRewrite compares the output with the normalized content; inputs
// that were normalized on load (BOM, CRLF, UTF-16) always differ on disk.
func needsRewrite(file *source.File, formatted []byte) bool {
	if file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF|source.FileDecodedUTF16) != 0 {
		return true
	}
	return !bytes.Equal(file.Content, formatted)
}

func verify(file *source.File, bag *diag.Bag, opt format.Options) error {
	rt, err := format.CheckRoundTrip(file.Path, string(file.Content), opt)
	if err != nil {
		bag.Add(diag.Errorf(diag.FmtShapeChanged, source.Span{File: file.ID}, "%v", err))
		return err
	}
	sp := source.Span{File: file.ID}
	switch {
	case !rt.ShapeKept:
		bag.Add(diag.Errorf(diag.FmtShapeChanged, sp, "formatting changed the statement sequence"))
		return errors.New("verify: statement sequence changed")
	case !rt.Idempotent:
		bag.Add(diag.Errorf(diag.FmtNotIdempotent, sp,
			"second formatting pass differs at output line %d", rt.FirstDiffLine))
		return fmt.Errorf("verify: output not idempotent at line %d", rt.FirstDiffLine)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode.Perm())
}
