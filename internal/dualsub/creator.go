package dualsub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/logging"
	"github.com/mkotas/dualsub/internal/subtitle"
	"github.com/mkotas/dualsub/internal/syncer"
	"github.com/mkotas/dualsub/internal/video"
)

// Result reports one dual subtitle creation.
type Result struct {
	Success        bool
	OutputPath     string
	PrimaryLines   int
	SecondaryLines int
	TotalLines     int
	Format         string
	SyncPerformed  bool
	SyncMethod     string
	Languages      map[string]language.Result
	Warnings       []string
	Err            string
}

// Creator composes two subtitle tracks into a single dual-language file.
// Collaborators are injected; there is no hidden shared state between
// merges, so independent requests can run concurrently.
type Creator struct {
	synchronizer *syncer.Synchronizer
	detector     *language.Detector
	prober       video.Prober
	log          *logging.Logger
	tempDir      string

	// advisory video timing windows
	syncTolerance    time.Duration
	warningThreshold time.Duration
}

func NewCreator(
	synchronizer *syncer.Synchronizer,
	detector *language.Detector,
	prober video.Prober,
	log *logging.Logger,
	tempDir string,
) *Creator {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Creator{
		synchronizer:     synchronizer,
		detector:         detector,
		prober:           prober,
		log:              log,
		tempDir:          tempDir,
		syncTolerance:    5 * time.Second,
		warningThreshold: 30 * time.Second,
	}
}

// SetVideoWindows overrides the advisory timing windows used by the video
// duration check.
func (c *Creator) SetVideoWindows(tolerance, warning time.Duration) {
	c.syncTolerance = tolerance
	c.warningThreshold = warning
}

// CreateDual runs the merge pipeline. Load failures on either source are
// fatal; synchronization failure is soft (secondary keeps its original
// timing); video validation only ever adds warnings. The output lands via
// temp-file-and-rename so a failed merge never leaves a partial file.
func (c *Creator) CreateDual(
	ctx context.Context,
	primaryPath, secondaryPath, outputPath string,
	cfg Config,
	videoPath string,
) Result {
	if err := cfg.Validate(); err != nil {
		return Result{OutputPath: outputPath, Err: err.Error()}
	}

	var tempFiles []string
	defer func() {
		for _, path := range tempFiles {
			_ = os.Remove(path)
		}
	}()

	result := Result{OutputPath: outputPath, Format: string(cfg.OutputFormat)}

	// language detection feeds config enhancement; the caller's config is
	// never touched
	if cfg.EnableLanguageDetection {
		languages := c.detectLanguages(primaryPath, secondaryPath, cfg)
		result.Languages = languages
		cfg = cfg.enhancedForLanguages(
			languages["primary"].Language,
			languages["secondary"].Language,
		)
	}

	primary, err := subtitle.Open(primaryPath)
	if err != nil {
		result.Err = fmt.Sprintf("failed to load primary subtitle: %v", err)
		return result
	}

	// the primary track is the timing reference and is never resynced
	secondary, syncInfo := c.loadSecondary(ctx, primaryPath, secondaryPath, cfg, &tempFiles)
	if secondary == nil {
		result.Err = syncInfo.err
		return result
	}
	result.SyncPerformed = syncInfo.performed
	result.SyncMethod = syncInfo.method
	if syncInfo.warning != "" {
		result.Warnings = append(result.Warnings, syncInfo.warning)
	}

	if videoPath != "" {
		result.Warnings = append(result.Warnings,
			c.videoSyncWarnings(primary, secondary, videoPath)...)
	}

	var dual *subtitle.Subtitle
	if cfg.OutputFormat == FormatSRT {
		dual = composeSRT(primary, secondary, cfg)
	} else {
		dual = composeStyled(primary, secondary, cfg)
	}

	if err := c.saveAtomic(dual, outputPath, cfg.OutputFormat, &tempFiles); err != nil {
		result.Err = err.Error()
		return result
	}

	result.Success = true
	result.PrimaryLines = len(primary.Entries)
	result.SecondaryLines = len(secondary.Entries)
	result.TotalLines = len(dual.Entries)
	return result
}

func (c *Creator) detectLanguages(primaryPath, secondaryPath string, cfg Config) map[string]language.Result {
	detect := func(path, declared string) language.Result {
		result, err := c.detector.DetectFile(path, declared)
		if err != nil {
			c.log.Debugw("Language detection failed", "path", path, "error", err)
			return language.Result{Language: language.Unknown, Method: "error"}
		}
		return result
	}
	return map[string]language.Result{
		"primary":   detect(primaryPath, cfg.PrimaryLanguage),
		"secondary": detect(secondaryPath, cfg.SecondaryLanguage),
	}
}

type syncInfo struct {
	performed bool
	method    string
	warning   string
	err       string
}

// loadSecondary optionally synchronizes the secondary track to the primary.
// Sync failures fall back to the unsynchronized track; only a load failure
// returns nil.
func (c *Creator) loadSecondary(
	ctx context.Context,
	primaryPath, secondaryPath string,
	cfg Config,
	tempFiles *[]string,
) (*subtitle.Subtitle, syncInfo) {
	if !cfg.EnableSync {
		return c.loadOriginalSecondary(secondaryPath, syncInfo{})
	}

	tmp, err := os.CreateTemp(c.tempDir, "dualsub-sync-*.srt")
	if err != nil {
		return c.loadOriginalSecondary(secondaryPath, syncInfo{
			warning: fmt.Sprintf("synchronization skipped: %v", err),
		})
	}
	tmpPath := tmp.Name()
	tmp.Close()
	*tempFiles = append(*tempFiles, tmpPath)

	syncResult, err := c.synchronizer.SyncSubtitles(
		ctx, primaryPath, secondaryPath, tmpPath, cfg.SyncMethod, true,
		cfg.SyncOptions,
	)
	if err != nil || !syncResult.Success {
		reason := ""
		if err != nil {
			reason = err.Error()
		} else {
			reason = syncResult.Err
		}
		return c.loadOriginalSecondary(secondaryPath, syncInfo{
			warning: fmt.Sprintf("synchronization failed, using original timing: %s", reason),
		})
	}

	synced, err := subtitle.Open(tmpPath)
	if err != nil {
		return c.loadOriginalSecondary(secondaryPath, syncInfo{
			warning: fmt.Sprintf("synchronized output unreadable, using original timing: %v", err),
		})
	}

	return synced, syncInfo{performed: true, method: string(syncResult.Method)}
}

func (c *Creator) loadOriginalSecondary(path string, info syncInfo) (*subtitle.Subtitle, syncInfo) {
	secondary, err := subtitle.Open(path)
	if err != nil {
		info.err = fmt.Sprintf("failed to load secondary subtitle: %v", err)
		return nil, info
	}
	return secondary, info
}

// videoSyncWarnings flags tracks ending far past or far before the video
// end. Advisory only; probe failures downgrade to a warning as well.
func (c *Creator) videoSyncWarnings(primary, secondary *subtitle.Subtitle, videoPath string) []string {
	if c.prober == nil {
		return nil
	}

	info, err := c.prober.Probe(videoPath)
	if err != nil {
		return []string{fmt.Sprintf("could not validate video sync: %v", err)}
	}

	var warnings []string
	check := func(name string, track *subtitle.Subtitle) {
		end := track.MaxEnd()
		switch {
		case end > info.Duration+c.syncTolerance:
			warnings = append(warnings, fmt.Sprintf(
				"%s subtitle extends %.1fs beyond video",
				name, (end-info.Duration).Seconds()))
		case end < info.Duration-c.warningThreshold:
			warnings = append(warnings, fmt.Sprintf(
				"%s subtitle ends %.1fs before video",
				name, (info.Duration-end).Seconds()))
		}
	}
	check("primary", primary)
	check("secondary", secondary)
	return warnings
}

// saveAtomic serializes next to the destination and renames into place so
// failures never leave a partial output file.
func (c *Creator) saveAtomic(
	dual *subtitle.Subtitle,
	outputPath string,
	format OutputFormat,
	tempFiles *[]string,
) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".dualsub-*"+filepath.Ext(outputPath))
	if err != nil {
		return fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	*tempFiles = append(*tempFiles, tmpPath)

	if err := subtitle.Save(dual, tmpPath, subtitle.Format(format)); err != nil {
		return fmt.Errorf("failed to save dual subtitle: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
