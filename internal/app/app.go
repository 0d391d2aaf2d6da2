// Package app implements the application layer for dynplug.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/dynplug/internal/adapters/detector"
	"go.trai.ch/dynplug/internal/adapters/linear"
	"go.trai.ch/dynplug/internal/adapters/telemetry"
	"go.trai.ch/dynplug/internal/adapters/tui"
	"go.trai.ch/dynplug/internal/adapters/watcher"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/dynplug/internal/engine/catalog"
	"go.trai.ch/dynplug/internal/engine/install"
	"go.trai.ch/dynplug/internal/engine/merge"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader      ports.ManifestLoader
	registry    ports.PackageRegistry
	images      ports.ImageClient
	extractor   ports.ArchiveExtractor
	inspector   ports.PackageInspector
	store       ports.StateStore
	lock        ports.RunLock
	watcher     ports.Watcher
	logger      ports.Logger
	teaOptions  []tea.ProgramOption
	disableTick bool
}

// New creates a new App instance.
func New(
	loader ports.ManifestLoader,
	registry ports.PackageRegistry,
	images ports.ImageClient,
	extractor ports.ArchiveExtractor,
	inspector ports.PackageInspector,
	store ports.StateStore,
	lock ports.RunLock,
	fileWatcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:    loader,
		registry:  registry,
		images:    images,
		extractor: extractor,
		inspector: inspector,
		store:     store,
		lock:      lock,
		watcher:   fileWatcher,
		logger:    log,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI tick loop.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// InstallOptions configuration for the Install method.
type InstallOptions struct {
	// Root is the destination directory for installed plugins.
	Root string
	// Manifest is the path of the main plugins manifest.
	Manifest string
	// SkipIntegrity disables integrity verification of remote registry packages.
	SkipIntegrity bool
	// CatalogIndex is an optional catalog index image reference.
	CatalogIndex string
	// EntitiesDir receives catalog entity documents from the catalog index.
	EntitiesDir string
	// OutputMode selects the renderer (auto, linear or tui).
	OutputMode string
}

// Install reconciles the plugins root against the manifest.
//
//nolint:cyclop // orchestration function
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	// 1. Prepare the plugins root and take the cross-process lock
	if err := os.MkdirAll(opts.Root, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create plugins root")
	}
	if err := a.lock.Acquire(ctx, opts.Root); err != nil {
		return err
	}
	defer func() {
		if err := a.lock.Release(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release lock: %v", err))
		}
	}()
	defer func() {
		catalog.RemoveScratch(opts.Root)
		if err := a.images.Cleanup(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to remove image scratch space: %v", err))
		}
	}()

	// 2. Load the manifest
	manifest, err := a.loader.Load(opts.Manifest)
	if err != nil {
		return err
	}
	if manifest == nil {
		// A missing or empty manifest still truncates the merged
		// document, so a previous run's plugins stop being configured.
		a.logger.Info(fmt.Sprintf("no %s file found, skipping dynamic plugins installation", opts.Manifest))
		return a.loader.WriteGlobalConfig(domain.GlobalConfigPath(opts.Root), nil)
	}

	// 3. Initialize Renderer
	// Detect environment and resolve output mode
	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, opts.OutputMode)

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// 4. Initialize Telemetry
	// Create a bridge that sends OTel spans to the renderer.
	bridge := telemetry.NewBridge(renderer)

	// Configure the global OTel SDK to use our bridge for spans.
	// This ensures that when OTelTracer uses otel.Tracer(), it uses a provider
	// that forwards events to our bridge.
	setupOTel(bridge)

	// Create and configure the OTel Tracer adapter.
	// We inject the renderer so it can stream logs directly to it.
	tracer := telemetry.NewOTelTracer("dynplug").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	// 5. Run Renderer and Installer concurrently
	g, ctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Installer Routine
	g.Go(func() error {
		defer func() {
			// Handle panic recovery for the installer goroutine
			if r := recover(); r != nil {
				// Print panic info before renderer shutdown
				fmt.Fprintf(os.Stderr, "Installer panic: %v\n", r)
			}
			// Ensure renderer stops when the installer finishes.
			_ = renderer.Stop()
		}()

		set, err := a.mergedSet(ctx, manifest, tracer, opts)
		if err != nil {
			return err
		}

		reconciler := install.NewReconciler(
			a.store,
			a.registry,
			a.images,
			a.extractor,
			a.inspector,
			a.loader,
			tracer,
			a.logger,
		)
		if err := reconciler.Run(ctx, set, install.Options{
			Root:          opts.Root,
			SkipIntegrity: opts.SkipIntegrity,
		}); err != nil {
			return errors.Join(domain.ErrInstallationFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// mergedSet resolves the include list and folds every manifest layer
// into the final plugin set.
func (a *App) mergedSet(
	ctx context.Context,
	manifest *domain.Manifest,
	tracer ports.Tracer,
	opts InstallOptions,
) (domain.PluginSet, error) {
	includes := manifest.Includes

	if opts.CatalogIndex != "" {
		entitiesDir := opts.EntitiesDir
		if entitiesDir == "" {
			entitiesDir = catalog.DefaultEntitiesDir()
		}
		extractor := catalog.NewExtractor(a.images, a.extractor, tracer, a.logger)
		defaultFile, err := extractor.Extract(ctx, opts.CatalogIndex, opts.Root, entitiesDir)
		if err != nil {
			return nil, err
		}
		includes = substituteDefaultInclude(includes, defaultFile, a.logger)
	}

	layers := make([]merge.Layer, 0, len(includes)+1)
	for _, include := range includes {
		a.logger.Info(fmt.Sprintf("including dynamic plugins from %s", include))
		plugins, err := a.loader.LoadPlugins(include)
		if err != nil {
			return nil, err
		}
		layers = append(layers, merge.Layer{Source: include, Plugins: plugins, Level: 0})
	}
	layers = append(layers, merge.Layer{Source: opts.Manifest, Plugins: manifest.Plugins, Level: 1})

	return merge.New(a.images, a.logger).Merge(ctx, layers)
}

// substituteDefaultInclude swaps the embedded default include for the
// manifest extracted from the catalog index, keeping its position so
// later layers still override it the same way.
func substituteDefaultInclude(includes []string, defaultFile string, log ports.Logger) []string {
	out := slices.Clone(includes)
	for i, include := range out {
		if include == domain.DefaultIncludeFileName {
			log.Info(fmt.Sprintf("replacing include %s with catalog index default %s", include, defaultFile))
			out[i] = defaultFile
			break
		}
	}
	return out
}

// Watch runs an installation, then re-runs it whenever the manifest or
// one of its includes changes, until the context is canceled.
func (a *App) Watch(ctx context.Context, opts InstallOptions) error {
	run := func() {
		// A failing run keeps the watch alive; the next edit may fix it.
		if err := a.Install(ctx, opts); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}

	run()

	fingerprints := watcher.NewFingerprintCache()
	watched := make(map[string]struct{})

	addPaths := func(paths []string, start bool) error {
		var fresh []string
		for _, path := range paths {
			abs, err := filepath.Abs(path)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; ok {
				continue
			}
			watched[abs] = struct{}{}
			fresh = append(fresh, abs)
		}
		if start {
			if err := a.watcher.Start(ctx, fresh...); err != nil {
				return err
			}
		} else if len(fresh) > 0 {
			if err := a.watcher.Add(fresh...); err != nil {
				return err
			}
		}
		// Record current contents so only real edits trigger a run.
		for _, path := range fresh {
			fingerprints.Changed(path)
		}
		return nil
	}

	if err := addPaths(a.watchPaths(opts.Manifest), true); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	runs := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		dirty := false
		for _, path := range paths {
			if fingerprints.Changed(path) {
				dirty = true
			}
		}
		if !dirty {
			return
		}
		select {
		case runs <- struct{}{}:
		default:
			// A run is already pending; the change is folded into it.
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info(fmt.Sprintf("watching %s and its includes for changes", opts.Manifest))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-runs:
			a.logger.Info("manifest changed, re-running installation")
			run()
			if err := addPaths(a.watchPaths(opts.Manifest), false); err != nil {
				a.logger.Warn(fmt.Sprintf("failed to watch new includes: %v", err))
			}
		}
	}
}

// watchPaths returns the manifest and every include it currently names.
// A manifest that cannot be read yields just the manifest path, so the
// watch still catches the edit that repairs it.
func (a *App) watchPaths(manifestPath string) []string {
	paths := []string{manifestPath}
	manifest, err := a.loader.Load(manifestPath)
	if err != nil || manifest == nil {
		return paths
	}
	return append(paths, manifest.Includes...)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Root is the plugins root to clean.
	Root string
}

// Clean removes installed plugins, the merged configuration document,
// and the catalog scratch directory from the plugins root.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	if _, err := os.Stat(opts.Root); os.IsNotExist(err) {
		a.logger.Info(fmt.Sprintf("plugins root %s does not exist, nothing to clean", opts.Root))
		return nil
	}

	if err := a.lock.Acquire(ctx, opts.Root); err != nil {
		return err
	}
	defer func() {
		if err := a.lock.Release(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to release lock: %v", err))
		}
	}()

	index, err := a.store.InstalledIndex(opts.Root)
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	for _, dir := range slices.Compact(slices.Sorted(maps.Values(index))) {
		remove(filepath.Join(opts.Root, dir), fmt.Sprintf("plugin %s", dir))
	}
	remove(domain.GlobalConfigPath(opts.Root), "merged configuration document")
	remove(domain.CatalogScratchPath(opts.Root), "catalog scratch directory")

	return errs
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	// Create a new TracerProvider with the bridge as a SpanProcessor.
	// This ensures that all started spans are reported to the renderer.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)

	// Register it as the global provider.
	otel.SetTracerProvider(tp)
}
